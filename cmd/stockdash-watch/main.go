package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stockdash/internal/events"
)

func main() {
	addr := "localhost:9090"
	if a := os.Getenv("STOCKDASH_GRPC_ADDR"); a != "" {
		addr = a
	}
	flag.StringVar(&addr, "addr", addr, "gRPC address of stockdash-server")
	raw := flag.Bool("raw", false, "print events as JSON structs")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := events.NewClient(addr, logger)
	err := client.Watch(ctx, func(e events.Event) error {
		ts := e.Time.Local().Format("15:04:05.000")
		if *raw {
			st, err := e.ToStruct()
			if err != nil {
				return err
			}
			fmt.Printf("%s #%d %s\n", ts, e.Seq, st.String())
			return nil
		}
		fmt.Printf("%s #%-5d %s\n", ts, e.Seq, events.Describe(e))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("watch ended", "error", err)
		os.Exit(1)
	}
}
