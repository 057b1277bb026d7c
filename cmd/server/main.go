package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manana2520/ai-agent-outreach-email/internal/api"
	"github.com/manana2520/ai-agent-outreach-email/internal/config"
	"github.com/manana2520/ai-agent-outreach-email/internal/pipeline"
	"github.com/manana2520/ai-agent-outreach-email/internal/runner"
	"github.com/manana2520/ai-agent-outreach-email/internal/scorer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	crew := pipeline.NewCrewPipeline(&cfg.Pipeline)
	r := runner.New(crew, cfg.Pipeline.TestTimeout)
	router := api.NewRouter(scorer.New(), r, cfg.Improver.TargetPassRate)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
