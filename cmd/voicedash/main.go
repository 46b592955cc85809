package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"voicedash/internal/bootstrap"
	"voicedash/internal/delivery"
	"voicedash/internal/delivery/ws"
	"voicedash/internal/domain"
)

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		panic("cannot build logger: " + err.Error())
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	hub := ws.NewHub(log)
	sink := delivery.NewSink(hub, log)

	services := bootstrap.Build(sink, log)
	defer services.Reporter.Close()
	cfg := services.Config

	// Ask for anything not yet granted up front so the first capture does not
	// stall on a permission prompt.
	services.Gate.RequestMissing(context.Background())
	sink.StatusChanged(domain.StatusReady)

	handler := delivery.NewHandler(services.Controller, sink, hub, delivery.RuntimeInfo{
		"backendBaseUrl": cfg.Backend.BaseURL,
		"engineUrl":      cfg.Engine.URL,
		"phoneRegion":    cfg.Interpret.PhoneRegion,
		"installedApps":  strings.Join(cfg.Apps.Installed, ","),
	}, log)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, handler)

	log.Infow("server started", "addr", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, r); err != nil {
		log.Errorw("server crashed", "error", err)
	}
}
