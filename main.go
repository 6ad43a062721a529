package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"siteintel/api"
	"siteintel/cache"
	"siteintel/config"
	"siteintel/fetcher"
	"siteintel/scraper"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// CLI flags structure
type CLIFlags struct {
	ConfigFile string `help:"Path to a YAML config file" short:"c" type:"path"`
	URL        string `help:"Scrape a single website, print the JSON result and exit" short:"u"`
	Port       string `help:"Override server.port" short:"p"`
}

func main() {
	var flags CLIFlags
	kong.Parse(&flags,
		kong.Name("siteintel"),
		kong.Description("Extracts contact emails and social presence from business websites."),
	)

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		log.Fatal("loading config", "err", err)
	}
	if flags.Port != "" {
		cfg.Server.Port = flags.Port
	}

	logger := newLogger(cfg.Log)

	client := fetcher.New(fetcher.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes))
	service := scraper.NewService(client,
		scraper.WithLogger(logger.WithPrefix("scraper")),
		scraper.WithTiers(cfg.Tiers()),
		scraper.WithSocialLimit(cfg.Social.MaxConcurrency),
		scraper.WithRecencyUnit(cfg.Social.RecencyUnit),
	)

	if flags.URL != "" {
		data := service.ScrapeWebsite(context.Background(), flags.URL)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			log.Fatal("encoding result", "err", err)
		}
		return
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.New(cache.NewClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB))
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := resultCache.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("redis unreachable, caching disabled", "addr", cfg.Cache.Addr, "err", err)
			resultCache.Close()
			resultCache = nil
		} else {
			defer resultCache.Close()
			logger.Info("result cache enabled", "addr", cfg.Cache.Addr, "ttl", cfg.Cache.TTL)
		}
	}

	handler := api.NewHandler(service, resultCache, cfg.Cache.TTL, logger.WithPrefix("api"))
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(handler, os.Stdout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server is running", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}

func newLogger(lc config.LogConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", lc.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	switch lc.Format {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger
}
