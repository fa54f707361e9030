package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stockdash/internal/chart"
	"stockdash/internal/config"
	"stockdash/internal/dashboard"
	"stockdash/internal/scheduler"
	"stockdash/internal/stocksapi"
	"stockdash/internal/tui"
	"stockdash/internal/util"
)

func main() {
	cfgPath := "config/stockdash.yaml"
	if p := os.Getenv("STOCKDASH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading timezone: %v\n", err)
		os.Exit(1)
	}
	listSort, err := dashboard.ParseSortMode(cfg.UI.ListSort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ui.list_sort: %v\n", err)
		os.Exit(1)
	}

	logPath := fmt.Sprintf("/tmp/stockdash-tui-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLoggerTo(logFile, cfg.Logging.Level, "text")
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

	bridge := tui.NewBridge()
	renderer := chart.NewRenderer(bridge, chart.Options{
		Location:   loc,
		DateLayout: cfg.UI.DateLayout,
		Target:     cfg.UI.ChartTarget,
	}, logger)
	session := dashboard.NewSession(client, bridge, renderer,
		dashboard.WithDefaultPeriod(cfg.UI.DefaultPeriod),
		dashboard.WithListSort(listSort),
		dashboard.WithSessionLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(
		tui.NewModel(ctx, session, listSort, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	bridge.Attach(p.Send)

	sched := scheduler.NewScheduler(ctx, session, logger)
	if err := sched.RegisterListRefresh(cfg.Refresh.ListCron); err != nil {
		fmt.Fprintf(os.Stderr, "scheduler: %v\n", err)
		os.Exit(1)
	}
	sched.Start()

	_, runErr := p.Run()

	cancel()
	sched.Stop()
	if err := session.Close(); err != nil {
		logger.Warn("closing session", "error", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
