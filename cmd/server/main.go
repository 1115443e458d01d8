package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	svgcrop "github.com/Eryk-dev/svg-crop-api"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (TOML)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := svgcrop.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = svgcrop.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Override from environment variables.
	if v := os.Getenv("SVGCROP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SVGCROP_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("SVGCROP_WORK_ROOT"); v != "" {
		cfg.WorkRoot = v
	}
	if v := os.Getenv("SVGCROP_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = v
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	processor, err := svgcrop.New(cfg)
	if err != nil {
		slog.Error("creating processor", "error", err)
		os.Exit(1)
	}

	h := newHandler(processor, cfg)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /crop-svg", h.handleCrop)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /", h.handleRoot)

	// Middleware chain: recovery -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(cfg.APIKey, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // zip of many crops can be large
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
