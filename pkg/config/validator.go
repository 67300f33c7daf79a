package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	// LLM
	switch c.LLM.Provider {
	case "googleai":
		if c.LLM.APIKey == "" {
			errs = append(errs, ValidationError{
				Field:   "llm.api_key",
				Message: "API key is required for the googleai provider",
			})
		}
	case "ollama":
		if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid Ollama base URL",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider %q", c.LLM.Provider),
		})
	}

	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.MaxTokens < 0 {
		errs = append(errs, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens cannot be negative",
		})
	}

	// Database
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, ValidationError{
				Field:   "database.url",
				Message: "database URL is required for the postgres driver",
			})
		} else if _, err := url.Parse(c.Database.URL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	case "memory":
	default:
		errs = append(errs, ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unknown driver %q", c.Database.Driver),
		})
	}

	if !tableNamePattern.MatchString(c.Database.TableName) {
		errs = append(errs, ValidationError{
			Field:   "database.table_name",
			Message: "table_name must be a plain SQL identifier",
		})
	}

	// Scraper
	if c.Scraper.RateLimit <= 0 {
		errs = append(errs, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Scraper.Timeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "scraper.timeout",
			Message: "timeout cannot be negative",
		})
	}

	// Sources
	if len(c.Sources) == 0 {
		errs = append(errs, ValidationError{
			Field:   "sources",
			Message: "at least one source is required",
		})
	}

	for i, src := range c.Sources {
		p := string(src.Platform)
		if p == "" || p != strings.ToLower(p) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("sources[%d].platform", i),
				Message: "platform must be a non-empty lower-case identifier",
			})
		}
		if u, err := url.Parse(src.URL); err != nil || !u.IsAbs() {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("sources[%d].url", i),
				Message: "url must be absolute",
			})
		}
	}

	// Log
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q", c.Log.Level),
		})
	}

	return errs
}

// Err joins the validation errors into one error, or returns nil.
func (c *Config) Err() error {
	verrs := c.Validate()
	if len(verrs) == 0 {
		return nil
	}

	joined := make([]error, 0, len(verrs))
	for _, e := range verrs {
		joined = append(joined, e)
	}
	return fmt.Errorf("invalid config: %w", errors.Join(joined...))
}
