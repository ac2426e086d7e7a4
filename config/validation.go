package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Has reports whether field failed validation.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

var supportedLocales = map[string]bool{"en": true, "zh": true}

// ValidateConfig checks the configuration. A missing LLM credential or
// endpoint is fatal: the process must not serve traffic without them.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		add("llm.api_key", "is required (MEDIDIET_LLM_API_KEY, DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE)")
	}
	if strings.TrimSpace(cfg.LLM.URL) == "" {
		add("llm.url", "is required")
	} else if u, err := url.Parse(cfg.LLM.URL); err != nil || u.Scheme == "" || u.Host == "" {
		add("llm.url", "must be an absolute URL")
	}
	if cfg.LLM.Model == "" {
		add("llm.model", "is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		add("llm.temperature", "must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens <= 0 {
		add("llm.max_tokens", "must be positive")
	}
	if cfg.LLM.Timeout <= 0 {
		add("llm.timeout", "must be positive")
	}
	if !supportedLocales[cfg.LLM.Locale] {
		add("llm.locale", "must be one of en, zh")
	}

	if cfg.JWT.Secret == "" {
		add("jwt.secret", "is required")
	}
	if cfg.JWT.Expiration <= 0 {
		add("jwt.expiration", "must be positive")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.DSN == "" && cfg.Database.Host == "" {
			add("database.host", "is required for postgres")
		}
		if cfg.Env.IsProduction() && cfg.Database.DSN == "" && cfg.Database.Password == "" {
			add("database.password", "is required in production")
		}
	case "sqlite":
		if cfg.Database.ConnectionString() == "" {
			add("database.name", "is required for sqlite")
		}
	default:
		add("database.driver", "must be postgres or sqlite")
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
