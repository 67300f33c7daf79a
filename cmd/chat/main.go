package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/xhad/cdpask/internal/app"
	"github.com/xhad/cdpask/internal/models"
	"github.com/xhad/cdpask/pkg/assistant"
	"github.com/xhad/cdpask/pkg/config"
	"github.com/xhad/cdpask/pkg/logger"
	"github.com/xhad/cdpask/pkg/scraper"
)

type CLI struct {
	Config   string `help:"Path to config file." type:"path"`
	Memory   bool   `help:"Keep documents in memory instead of Postgres."`
	LogLevel string `help:"Log level, overrides log.level." name:"log-level"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("cdpask-chat"),
		kong.Description("Chat with the CDP documentation assistant in the terminal"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.FatalIfErrorf(run(ctx, cli))
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// applyFlags overrides config values with the flags that were set.
func applyFlags(cfg *config.Config, cli CLI) {
	if cli.Memory {
		cfg.Database.Driver = "memory"
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
}

func run(ctx context.Context, cli CLI) error {
	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	applyFlags(cfg, cli)

	if err := cfg.Err(); err != nil {
		return err
	}
	if err := logger.Configure(logrus.StandardLogger(), os.Stderr, cfg.Log.Level, "text"); err != nil {
		return err
	}

	color.Blue("\nFetching documentation for %d platforms\n", len(cfg.Sources))
	bar := getProgressBar(len(cfg.Sources), " Fetching documentation...")

	var degraded []string
	a, err := app.New(ctx, cfg, logger.New("chat"),
		app.WithProgress(func(src models.Source, result scraper.Result) {
			if result.Status != scraper.StatusOK {
				degraded = append(degraded, fmt.Sprintf("%s (%s)", src.Platform, result.Status))
			}
			bar.Describe(color.BlueString(" Fetched %s", src.Platform))
			bar.Add(1)
		}),
	)
	bar.Finish()
	if err != nil {
		return err
	}
	defer a.Close()

	color.Green("\n✓ Stored %d platforms\n", a.Corpus.Len())
	if len(degraded) > 0 {
		color.Yellow("! No content for %s\n", strings.Join(degraded, ", "))
	}

	color.Cyan("\nAsk about %s (type 'exit' to quit)", strings.Join(a.Gate.Identifiers(), ", "))

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if strings.ToLower(query) == "exit" {
			break
		}

		spinner := getSpinner(" Thinking...")
		reply := a.Assistant.Ask(ctx, query)
		spinner.Finish()
		fmt.Print("\r")

		switch reply.Outcome {
		case assistant.OutcomeMissingQuestion:
			color.Red("%s\n", reply.Error)
		case assistant.OutcomeRejected, assistant.OutcomeCompletionFallback:
			color.Yellow("Assistant: %s\n", reply.Answer)
		default:
			assistantPrompt("Assistant: %s\n", reply.Answer)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return scanner.Err()
}
