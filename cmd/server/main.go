package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/rms-foh/api/internal/config"
	"github.com/rms-foh/api/internal/router"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/upstream"
	"github.com/rms-foh/api/internal/ws"
	"github.com/rms-foh/api/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	sessions := state.NewManager()

	hub := ws.NewHub()
	go hub.Run()

	backend := upstream.New(cfg.UpstreamURL)
	if backend.Enabled() {
		slog.Info("central backend configured", "url", cfg.UpstreamURL)
	} else {
		slog.Info("no central backend configured, serving local state only")
	}

	svc := service.New(hub)

	r, err := router.New(cfg, sessions, svc, backend, hub)
	if err != nil {
		slog.Error("failed to build router", "err", err)
		os.Exit(1)
	}

	slog.Info("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
