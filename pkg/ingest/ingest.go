// Package ingest fetches the documentation sources and persists them.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xhad/cdpask/internal/models"
	"github.com/xhad/cdpask/internal/types"
	"github.com/xhad/cdpask/pkg/metrics"
	"github.com/xhad/cdpask/pkg/scraper"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) scraper.Result
}

type Ingester struct {
	Fetcher Fetcher
	Store   types.DocumentStore
	Sources []models.Source
	Logger  logrus.FieldLogger
	Metrics *metrics.Metrics

	// OnProgress is called after each source has been fetched.
	OnProgress func(src models.Source, result scraper.Result)
}

// Run fetches every source in order, builds the corpus and upserts it. A
// failed fetch keeps the platform with empty content. Only a store error is
// returned.
func (in *Ingester) Run(ctx context.Context) (*models.Corpus, error) {
	log := in.logger()
	begin := time.Now()

	docs := make([]models.PlatformDoc, 0, len(in.Sources))
	degraded := 0
	for _, src := range in.Sources {
		result := in.Fetcher.Fetch(ctx, src.URL)

		fields := logrus.Fields{
			"platform": src.Platform,
			"url":      src.URL,
			"status":   result.Status,
			"bytes":    len(result.Content),
		}
		if result.Status == scraper.StatusOK {
			log.WithFields(fields).Info("fetched documentation")
		} else {
			degraded++
			entry := log.WithFields(fields)
			if result.StatusCode != 0 {
				entry = entry.WithField("status_code", result.StatusCode)
			}
			if result.Err != nil {
				entry = entry.WithError(result.Err)
			}
			entry.Warn("documentation unavailable, continuing with empty content")
		}

		if in.Metrics != nil {
			in.Metrics.Fetches.WithLabelValues(string(src.Platform), string(result.Status)).Inc()
		}
		if in.OnProgress != nil {
			in.OnProgress(src, result)
		}

		docs = append(docs, models.PlatformDoc{Platform: src.Platform, Content: result.Text()})
	}

	corpus := models.NewCorpus(docs)

	if err := in.Store.UpsertAll(ctx, corpus.Docs()); err != nil {
		return nil, fmt.Errorf("failed to store documents: %w", err)
	}
	if in.Metrics != nil {
		in.Metrics.Upserts.Add(float64(corpus.Len()))
	}

	log.WithFields(logrus.Fields{
		"platforms": corpus.Len(),
		"degraded":  degraded,
		"duration":  time.Since(begin).String(),
	}).Info("ingestion complete")

	return corpus, nil
}

func (in *Ingester) logger() logrus.FieldLogger {
	if in.Logger == nil {
		return logrus.StandardLogger()
	}
	return in.Logger
}
