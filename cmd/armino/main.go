package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/armino/internal/config"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/internal/injector"
	"github.com/zeusync/armino/internal/replay"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		scriptPath = flag.String("script", "", "path to a YAML replay script")
		feedAddr   = flag.String("feed", "", "serve the event feed on this address (overrides config)")
	)
	flag.Parse()

	if err := run(*configPath, *scriptPath, *feedAddr); err != nil {
		fmt.Fprintln(os.Stderr, "armino:", err)
		os.Exit(1)
	}
}

func run(configPath, scriptPath, feedAddr string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if feedAddr != "" {
		cfg.Feed.Addr = feedAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if scriptPath == "" && cfg.Feed.Addr == "" {
		return fmt.Errorf("nothing to do: pass -script or -feed")
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Feed.Addr != "" {
		g.Go(func() error { return app.Server.Serve(ctx) })
	}

	if scriptPath != "" {
		script, err := replay.LoadScriptFile(scriptPath)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			sum, err := app.Runner.Run(ctx, script)
			if err != nil {
				return err
			}
			app.Logger.Info("script finished",
				log.String("script", script.Name),
				log.Int("steps", sum.Steps),
				log.Int("placed", sum.Placed),
				log.Int("triggers", sum.Triggers),
				log.Int("resets", sum.Resets),
				log.Int("length", sum.Length),
				log.String("state", sum.State),
			)
			// Without a feed there is nothing left to serve.
			if cfg.Feed.Addr == "" {
				stop()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
