package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"stockdash/internal/chart"
	"stockdash/internal/config"
	"stockdash/internal/dashboard"
	"stockdash/internal/stocksapi"
	"stockdash/internal/util"
)

// env is what every command needs from the config file.
type env struct {
	cfg    *config.Config
	client *stocksapi.Client
	opts   chart.Options
	logger *slog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("ui.timezone: %w", err)
	}
	logger := util.NewLoggerTo(os.Stderr, cfg.Logging.Level, "text")
	client := stocksapi.NewClient(cfg.API.BaseURL,
		stocksapi.WithTimeout(cfg.API.Timeout),
		stocksapi.WithLogger(logger),
		stocksapi.WithEndpoints(stocksapi.Endpoints{
			Series:   cfg.API.SeriesPath,
			Profiles: cfg.API.ProfilesPath,
			Stats:    cfg.API.StatsPath,
		}),
	)
	return &env{
		cfg:    cfg,
		client: client,
		opts:   chart.Options{Location: loc, DateLayout: cfg.UI.DateLayout, Target: cfg.UI.ChartTarget},
		logger: logger,
	}, nil
}

// --- listCmd ---

type listCmd struct {
	sort string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print every stock with its book value and change" }
func (*listCmd) Usage() string {
	return `stockdash-cli list [-sort api|symbol|bookvalue|change]

  Prints the ticker list as the dashboard shows it.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "", "Sort order. Defaults to ui.list_sort.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sortName := c.sort
	if sortName == "" {
		sortName = e.cfg.UI.ListSort
	}
	mode, err := dashboard.ParseSortMode(sortName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	stats, err := e.client.FetchAllStats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rows := dashboard.SortStockRows(dashboard.BuildStockRows(stats), mode)
	writeRows(os.Stdout, rows)
	return subcommands.ExitSuccess
}

// --- showCmd ---

type showCmd struct {
	period string
	width  int
	height int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print a stock's chart, periods and summary" }
func (*showCmd) Usage() string {
	return `stockdash-cli show [-period <period>] [-w <cols>] [-h <rows>] <symbol>

  Opens symbol the way the dashboard does and prints the result.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period to chart. Defaults to ui.default_period.")
	f.IntVar(&c.width, "w", 80, "Chart width in columns")
	f.IntVar(&c.height, "h", 16, "Chart height in rows")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)

	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := newConsole()
	renderer := chart.NewRenderer(out, e.opts, e.logger)
	session := dashboard.NewSession(e.client, out, renderer,
		dashboard.WithDefaultPeriod(e.cfg.UI.DefaultPeriod),
		dashboard.WithSessionLogger(e.logger),
	)
	defer session.Close()

	if err := session.Show(ctx, symbol); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.period != "" {
		if err := session.SelectPeriod(c.period); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	out.print(os.Stdout, c.width, c.height)
	return subcommands.ExitSuccess
}

// --- periodsCmd ---

type periodsCmd struct{}

func (*periodsCmd) Name() string     { return "periods" }
func (*periodsCmd) Synopsis() string { return "list a stock's periods with their ranges" }
func (*periodsCmd) Usage() string {
	return `stockdash-cli periods <symbol>

  Prints every period of symbol in API order with its first and last date
  and its lowest and highest value.
`
}

func (*periodsCmd) SetFlags(*flag.FlagSet) {}

func (*periodsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)

	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	set, err := e.client.FetchSeries(ctx, symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var charts []*chart.Chart
	for _, p := range set.Periods {
		series, _ := set.Get(p)
		ch, err := chart.Build(symbol, p, series, e.opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		charts = append(charts, ch)
	}
	writePeriods(os.Stdout, charts)
	return subcommands.ExitSuccess
}

// --- versionCmd ---

type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print the CLI version" }
func (*versionCmd) Usage() string          { return "stockdash-cli version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("stockdash-cli %s\n", version)
	return subcommands.ExitSuccess
}
