package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservation-controller/config"
	"reservation-controller/controller"
	"reservation-controller/logger"
	"reservation-controller/metrics"
	"reservation-controller/transport"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Usage: %s -i minHour -f maxHour -s secondsPerHour -t capacity -p pipe\n\n%s",
			os.Args[0], config.Usage())
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, config.Usage())
		os.Exit(1)
	}

	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Start metrics server if address provided
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			slog.Info("Metrics server listening", "addr", cfg.MetricsAddr, "path", "/metrics")
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				slog.Error("Metrics server error", "error", err)
			}
		}()
	}

	inbound, err := transport.OpenFIFO(cfg.Pipe)
	if err != nil {
		slog.Error("Cannot open inbound pipe", "path", cfg.Pipe, "error", err)
		os.Exit(1)
	}
	defer inbound.Close()

	fmt.Printf("Controlador iniciado. Simulación de %d a %d, aforo=%d, segHoras=%d\n",
		cfg.MinHour, cfg.MaxHour, cfg.Capacity, cfg.SecondsPerHour)

	state := controller.NewState(cfg.MinHour, cfg.MaxHour, cfg.Capacity)
	clock := controller.NewClock(state, cfg.HourPeriod(), os.Stdout)
	dispatcher := controller.NewDispatcher(state, inbound, transport.FIFOSender{}, os.Stdout, cfg.ReportFormat)

	var group errgroup.Group
	group.Go(func() error {
		clock.Run()
		return nil
	})
	group.Go(func() error {
		stats := dispatcher.Run()
		slog.Info("Simulation finished",
			"accepted", stats.Counters.AcceptedExact,
			"rescheduled", stats.Counters.Rescheduled,
			"denied", stats.Counters.Denied,
		)
		return nil
	})
	if err := group.Wait(); err != nil {
		slog.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	// Handle metrics pushing or waiting
	if cfg.PushURL != "" {
		jobName := "reservation_controller"
		if err := push.New(cfg.PushURL, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			slog.Error("Error pushing to Pushgateway", "url", cfg.PushURL, "error", err)
		} else {
			slog.Info("Metrics successfully pushed to Pushgateway", "url", cfg.PushURL)
		}
	}

	if cfg.Wait && cfg.MetricsAddr != "" {
		slog.Info("Process kept alive for metric scraping. Press Ctrl+C to exit.")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	} else if cfg.MetricsAddr != "" && cfg.PushURL == "" {
		// Small delay to allow final scrape if not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
}
