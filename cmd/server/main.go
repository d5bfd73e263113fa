package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"decora/config"
	"decora/internal/database"
	"decora/internal/router"
	"decora/pkg/gateway"
	"decora/pkg/queue"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var gw gateway.Client
	if cfg.Gateway.KeyID != "" {
		gw = gateway.NewRazorpayClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret)
	} else {
		log.Printf("[gateway] no credentials configured, using stub client")
		gw = &gateway.StubClient{}
	}

	pub, err := queue.NewPublisher(cfg.Queue.URL, cfg.Queue.Exchange)
	if err != nil {
		log.Printf("[queue] broker unavailable, notifications disabled: %v", err)
	} else if pub == nil {
		log.Printf("[queue] no broker configured, notifications disabled")
	}
	defer pub.Close()

	engine := router.Setup(cfg, db, gw, pub)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
