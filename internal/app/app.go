// Package app wires the configured components into one application context
// shared by the server and the chat binaries.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/cdpask/internal/models"
	"github.com/xhad/cdpask/internal/types"
	"github.com/xhad/cdpask/pkg/assistant"
	"github.com/xhad/cdpask/pkg/config"
	"github.com/xhad/cdpask/pkg/gate"
	"github.com/xhad/cdpask/pkg/ingest"
	"github.com/xhad/cdpask/pkg/llm"
	"github.com/xhad/cdpask/pkg/metrics"
	"github.com/xhad/cdpask/pkg/scraper"
	"github.com/xhad/cdpask/pkg/store"
)

type App struct {
	Config    *config.Config
	Metrics   *metrics.Metrics
	Store     types.DocumentStore
	Corpus    *models.Corpus
	Gate      *gate.Gate
	Assistant *assistant.Assistant

	log       logrus.FieldLogger
	ownsStore bool
}

type options struct {
	model      llms.Model
	fetcher    ingest.Fetcher
	store      types.DocumentStore
	onProgress func(models.Source, scraper.Result)
}

// Option overrides a component New would otherwise build from config.
type Option func(*options)

// WithModel uses m instead of the configured LLM provider.
func WithModel(m llms.Model) Option {
	return func(o *options) { o.model = m }
}

// WithFetcher uses f instead of the HTTP scraper.
func WithFetcher(f ingest.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithStore uses s instead of the configured database driver. The caller
// keeps ownership: the App never closes s.
func WithStore(s types.DocumentStore) Option {
	return func(o *options) { o.store = s }
}

// WithProgress is called after each source has been fetched during startup.
func WithProgress(fn func(models.Source, scraper.Result)) Option {
	return func(o *options) { o.onProgress = fn }
}

// New builds every component and runs ingestion once. It fails if the store
// cannot be opened or written, or if the model cannot be constructed.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	a := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		log:     log,
	}

	s := o.store
	if s == nil {
		var err error
		if s, err = openStore(ctx, cfg); err != nil {
			return nil, err
		}
		a.ownsStore = true
	}
	a.Store = s

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = scraper.NewWithConfig(scraper.ScraperConfig{
			Timeout:   cfg.Scraper.Timeout,
			RateLimit: cfg.Scraper.RateLimit,
			UserAgent: cfg.Scraper.UserAgent,
		})
	}

	in := &ingest.Ingester{
		Fetcher:    fetcher,
		Store:      s,
		Sources:    cfg.Sources,
		Logger:     log.WithField("component", "ingest"),
		Metrics:    a.Metrics,
		OnProgress: o.onProgress,
	}
	corpus, err := in.Run(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Corpus = corpus

	identifiers := make([]string, 0, corpus.Len()+len(cfg.Gate.Aliases))
	for _, p := range corpus.Platforms() {
		identifiers = append(identifiers, string(p))
	}
	identifiers = append(identifiers, cfg.Gate.Aliases...)
	a.Gate = gate.New(identifiers...)

	model := o.model
	if model == nil {
		model, err = llm.NewModel(ctx, llm.ProviderConfig{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
			Model:    cfg.LLM.Model,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	answerer := llm.NewAnswerer(model, llm.AnswererConfig{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	a.Assistant = assistant.New(a.Gate, answerer, log.WithField("component", "assistant"), a.Metrics)

	log.WithFields(logrus.Fields{
		"provider":    cfg.LLM.Provider,
		"model":       cfg.LLM.Model,
		"driver":      cfg.Database.Driver,
		"identifiers": a.Gate.Identifiers(),
	}).Info("application ready")

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (types.DocumentStore, error) {
	switch cfg.Database.Driver {
	case "memory":
		return store.NewMemory(), nil
	case "postgres", "":
		ps, err := store.NewPostgres(ctx, store.PostgresConfig{
			ConnString: cfg.Database.URL,
			TableName:  cfg.Database.TableName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize document store: %w", err)
		}
		return ps, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// MetricsHandler serves the application's Prometheus registry.
func (a *App) MetricsHandler() http.Handler {
	return a.Metrics.Handler()
}

// Close closes the store if New opened it.
func (a *App) Close() {
	if a.ownsStore && a.Store != nil {
		a.Store.Close()
	}
}
