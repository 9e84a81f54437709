package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pakalnivut/backend/internal/api"
	"github.com/pakalnivut/backend/internal/app"
	"github.com/pakalnivut/backend/internal/config"
	"github.com/pakalnivut/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	flag.Parse()

	// Load YAML configuration, writing defaults on first run
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	a, err := app.Open(cfg, time.Now)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	log := a.Log.WithComponent("server")

	embeddedMode := web.HasEmbeddedFiles()

	e := echo.New()
	e.HideBanner = true

	origins := splitOrigins(cfg.Server.AllowOrigins)
	if !cfg.Server.EnableCORS {
		origins = nil
	}
	api.SetupMiddleware(e, api.MiddlewareOptions{
		RequestLogging: cfg.Server.EnableRequestLogging,
		Timeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
		BodyLimit:      cfg.Server.BodyLimit,
		AllowOrigins:   origins,
	})

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Repo:          a.Store,
		Service:       a.Service,
		Now:           a.Now,
		Version:       Version,
		ClockInterval: cfg.ClockInterval(),
		GapInterval:   cfg.GapInterval(),
		Logger:        a.Log,
	}))

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn("failed to register static routes", "error", err)
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	mode := "API only"
	if embeddedMode {
		mode = "Embedded UI"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Navigation Dispatch Log Server                  ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", mode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", *configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("║  Storage:   %-46s║\n", cfg.Storage.Backend+" / "+cfg.Storage.Codec)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("server started", "addr", cfg.GetServerAddr(), "version", Version)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

// splitOrigins parses the comma-separated allow_origins setting.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
