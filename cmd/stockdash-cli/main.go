package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
)

const version = "0.1.0"

var (
	configPath = flag.String("config", defaultConfigPath(), "path to the stockdash YAML config")
	serverURL  = flag.String("server", defaultServerURL(), "base URL of a running stockdash-server")
)

func defaultConfigPath() string {
	if p := os.Getenv("STOCKDASH_CONFIG"); p != "" {
		return p
	}
	return "config/stockdash.yaml"
}

func defaultServerURL() string {
	if u := os.Getenv("STOCKDASH_SERVER"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&listCmd{}, "")
	commander.Register(&showCmd{}, "")
	commander.Register(&periodsCmd{}, "")
	commander.Register(&openCmd{}, "remote")
	commander.Register(&stateCmd{}, "remote")
	commander.Register(&versionCmd{}, "")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := commander.Execute(ctx)
	cancel()
	os.Exit(int(status))
}
