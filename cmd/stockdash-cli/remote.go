package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"stockdash/pkg/stockdash"
)

// --- openCmd ---

type openCmd struct {
	period string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a stock on a running server's dashboard" }
func (*openCmd) Usage() string {
	return `stockdash-cli [-server <url>] open [-period <period>] <symbol>

  Opens symbol on the server, so every connected page and watcher shows it,
  then prints the resulting state.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Period to switch to after opening")
}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	client := stockdash.NewClient(*serverURL)

	st, err := client.Show(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.period != "" {
		if st, err = client.SelectPeriod(ctx, c.period); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	writeState(os.Stdout, st)
	return subcommands.ExitSuccess
}

// --- stateCmd ---

type stateCmd struct{}

func (*stateCmd) Name() string     { return "state" }
func (*stateCmd) Synopsis() string { return "print what a running server's dashboard shows" }
func (*stateCmd) Usage() string {
	return `stockdash-cli [-server <url>] state
`
}

func (*stateCmd) SetFlags(*flag.FlagSet) {}

func (*stateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := stockdash.NewClient(*serverURL).State(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	writeState(os.Stdout, st)
	return subcommands.ExitSuccess
}

func writeState(w io.Writer, st *stockdash.State) {
	if st.Symbol == "" {
		fmt.Fprintf(w, "no stock open (%d in list, sort %s)\n", len(st.Rows), st.Sort)
		return
	}
	periods := make([]string, len(st.Buttons))
	for i, b := range st.Buttons {
		periods[i] = b.Period
		if b.Active {
			periods[i] = "[" + b.Period + "]"
		}
	}
	fmt.Fprintf(w, "%s  %s  chart %s  period renders %d\n",
		st.Symbol, strings.Join(periods, " "), st.ChartID, st.PeriodRenders)
	if p := st.Summary; p != nil {
		fmt.Fprintf(w, "book value %s  change %s\n%s\n", p.BookValue, p.Change, p.Summary)
	}
}
