package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/xhad/cdpask/internal/app"
	"github.com/xhad/cdpask/pkg/config"
	"github.com/xhad/cdpask/pkg/logger"
	"github.com/xhad/cdpask/server"
)

type CLI struct {
	Config   string `help:"Path to config file." type:"path"`
	Addr     string `help:"Listen address, overrides server.addr."`
	LogLevel string `help:"Log level, overrides log.level." name:"log-level"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("cdpask-server"),
		kong.Description("Answer CDP documentation questions over HTTP"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.FatalIfErrorf(run(ctx, cli))
}

func run(ctx context.Context, cli CLI) error {
	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Addr != "" {
		cfg.Server.Addr = cli.Addr
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}

	if err := cfg.Err(); err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	log := logger.New("server")

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, a.Assistant, a.MetricsHandler(), log.WithField("component", "http"))

	return srv.Run(ctx)
}
