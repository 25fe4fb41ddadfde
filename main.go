package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mp4-converter/internal/convert"
	"mp4-converter/internal/handlers"
	"mp4-converter/internal/logging"
	"mp4-converter/internal/memory"
	"mp4-converter/internal/metrics"
	"mp4-converter/internal/middleware"
	"mp4-converter/internal/preview"
	"mp4-converter/internal/startup"
	"mp4-converter/internal/tools"
	"mp4-converter/internal/workers"
)

func main() {
	startTime := time.Now()

	// Configure GOMEMLIMIT before anything allocates
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Verify external tools
	toolCtx, toolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	toolErr := startup.LogToolCheck(toolCtx)
	toolCancel()
	if toolErr != nil {
		startup.LogFatal("Tool check failed: %v", toolErr)
	}

	ffmpegPath := config.FFmpegPath
	if ffmpegPath == "" {
		if ffmpegPath, err = tools.Find("ffmpeg"); err != nil {
			startup.LogFatal("ffmpeg lookup failed: %v", err)
		}
	}

	// Detect hardware encoders
	caps := startup.LogHardwareDetect(ffmpegPath, config.HWAccel)
	if caps.Available {
		metrics.HardwareEncoderAvailable.WithLabelValues(string(caps.Accel)).Set(1)
	}

	// Wire the conversion service
	svc, err := convert.New(convert.Config{
		FFmpegPath:  ffmpegPath,
		FFprobePath: config.FFprobePath,
		Caps:        caps,
		OutputDir:   config.OutputDir,
		Threads:     workers.EncodeThreads(0),
	})
	if err != nil {
		startup.LogFatal("Failed to initialize conversion service: %v", err)
	}

	previews := preview.NewGenerator(config.PreviewDir, ffmpegPath, config.PreviewsEnabled)

	// Setup router
	h := handlers.New(svc, previews)
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)
	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)

	// Metrics server on its own port
	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.AppInfo.WithLabelValues(startup.Version, runtime.Version()).Set(1)

		collector = metrics.NewCollector(svc, time.Minute)
		collector.Start()

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(":"+config.MetricsPort, metricsMux); err != nil && err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, svc, collector, config.ShutdownGrace)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, svc *convert.Service, collector *metrics.Collector, grace time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Cancelling live conversions")
	svc.Shutdown(grace)
	startup.LogShutdownStepComplete("Conversions stopped")

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
