package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"witherwatch.gg/internal/config"
	"witherwatch.gg/internal/persistence/journal"
	"witherwatch.gg/internal/persistence/runindex"
	"witherwatch.gg/internal/track"
	"witherwatch.gg/internal/transport/admin"
	"witherwatch.gg/internal/transport/companion"
	"witherwatch.gg/internal/transport/feed"
)

func main() {
	var (
		configPath   = flag.String("config", "./configs/tracker.yaml", "config path")
		listen       = flag.String("listen", "", "feed/admin listen address (overrides config)")
		companionURL = flag.String("companion", "", "companion ws url (overrides config)")
		dataDir      = flag.String("data", "", "runtime data directory (overrides config)")
		disableDB    = flag.Bool("disable_db", false, "disable the run history index")
		autoNav      = flag.Bool("autonav", false, "start with auto-navigation enabled")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[tracker] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load config: %v", err)
		}
		logger.Printf("config not found (%s); using defaults", *configPath)
		cfg = config.Defaults()
	}
	if strings.TrimSpace(*listen) != "" {
		cfg.Listen = *listen
	}
	if strings.TrimSpace(*companionURL) != "" {
		cfg.CompanionURL = *companionURL
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = *dataDir
	}
	if *disableDB {
		cfg.DisableDB = true
	}
	if *autoNav {
		cfg.AutoNav = true
	}

	// Companion link. A companion that is not up yet is not fatal: the
	// operator redials via the admin surface.
	link := companion.New(cfg.CompanionURL, cfg.Sender, logger)
	if err := link.Connect(); err != nil {
		logger.Printf("companion dial failed (continuing unlinked): %v", err)
	}
	defer link.Close()

	sink := track.Sink(link)
	if cfg.Journal {
		j := journal.NewRelayJournal(cfg.DataDir)
		defer j.Close()
		sink = &journalingSink{link: link, j: j, log: logger}
	}

	var rec track.RunRecorder
	if !cfg.DisableDB {
		ix, err := runindex.Open(cfg.DataDir)
		if err != nil {
			logger.Fatalf("open run index: %v", err)
		}
		defer ix.Close()
		rec = ix
	}

	tr := track.NewTracker(sink, rec, logger)
	tr.SetAutoNav(cfg.AutoNav)
	rt := track.NewRuntime(tr, cfg.TickRateHz)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runDone := make(chan struct{})
	go func() {
		rt.Run(ctx)
		close(runDone)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/feed", feed.NewServer(rt, logger).Handler())
	admin.NewServer(rt, link, logger).Register(mux)

	srv := &http.Server{Addr: cfg.Listen, Handler: mux}
	go func() {
		logger.Printf("listening on %s (feed /v1/feed, admin /admin/v1)", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	// The tick loop must finish its final reset before the deferred
	// journal and index closers run underneath it.
	<-runDone
}
