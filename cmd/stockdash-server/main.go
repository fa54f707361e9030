package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"stockdash/internal/chart"
	"stockdash/internal/config"
	"stockdash/internal/dashboard"
	"stockdash/internal/events"
	"stockdash/internal/httpapi"
	"stockdash/internal/scheduler"
	"stockdash/internal/stocksapi"
	"stockdash/internal/util"
)

func main() {
	cfgPath := "config/stockdash.yaml"
	if p := os.Getenv("STOCKDASH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("loading timezone: %v", err)
	}
	listSort, err := dashboard.ParseSortMode(cfg.UI.ListSort)
	if err != nil {
		log.Fatalf("ui.list_sort: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	client := stocksapi.NewClient(cfg.API.BaseURL,
		stocksapi.WithTimeout(cfg.API.Timeout),
		stocksapi.WithLogger(logger),
		stocksapi.WithEndpoints(stocksapi.Endpoints{
			Series:   cfg.API.SeriesPath,
			Profiles: cfg.API.ProfilesPath,
			Stats:    cfg.API.StatsPath,
		}),
	)

	hub := events.NewHub(logger)
	pub := events.NewPublisher(hub)
	renderer := chart.NewRenderer(pub, chart.Options{
		Location:   loc,
		DateLayout: cfg.UI.DateLayout,
		Target:     cfg.UI.ChartTarget,
	}, logger)
	session := dashboard.NewSession(client, pub, renderer,
		dashboard.WithDefaultPeriod(cfg.UI.DefaultPeriod),
		dashboard.WithListSort(listSort),
		dashboard.WithSessionLogger(logger),
	)
	defer session.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, session, logger)
	if err := sched.RegisterListRefresh(cfg.Refresh.ListCron); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	go sched.RefreshNow()
	sched.Start()
	defer sched.Stop()

	// gRPC event stream.
	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Fatalf("listening on %s: %v", cfg.GRPCAddr(), err)
	}
	grpcServer := grpc.NewServer()
	events.NewServer(hub, logger).RegisterGRPC(grpcServer)
	go func() {
		logger.Info("gRPC event stream listening", "addr", cfg.GRPCAddr())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", "error", err)
		}
	}()

	// HTTP dashboard.
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: httpapi.NewDashboardServer(session, hub, listSort, logger).Handler(),
	}
	go func() {
		logger.Info("dashboard listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// Event streams never end on their own; force them closed at the deadline.
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
}
