package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinanceAssistant/internal/config"
	"FinanceAssistant/internal/scheduler"
	"FinanceAssistant/internal/server"
	"FinanceAssistant/internal/store"
	"FinanceAssistant/internal/ynab"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FinanceAssistant starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	// Init budget source
	var source ynab.BudgetSource
	if cfg.YNABConfigured() {
		source = ynab.NewClient(cfg.YNAB.BaseURL, cfg.YNAB.APIKey, cfg.YNAB.BudgetID)
	} else {
		log.Println("[WARN] YNAB credentials not configured, serving manual data only")
		source = &ynab.StaticSource{}
	}
	log.Printf("[INFO] budget source: %s", source.Name())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, source, st)
	if err := sched.Register(cfg.Schedule.SnapshotCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: snapshot immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, taking snapshot now")
		go sched.RunSnapshotNow()
	}

	// Init HTTP server
	srv := server.NewServer(cfg.Server.ListenAddr, st, source, sched, cfg.Currency.Symbol)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Println("[INFO] FinanceAssistant is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] FinanceAssistant stopped")
}
