package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/matsen/refdoi/internal/crossref"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "REFDOI"

// ErrInvalid is returned for a setting that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Env holds settings read from REFDOI_* environment variables.
type Env struct {
	Mailto         string `envconfig:"MAILTO"`
	CrossrefURL    string `envconfig:"CROSSREF_URL"`
	TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS"`
}

// LoadEnv reads REFDOI_* variables, after loading a .env file from the
// working directory if one exists.
func LoadEnv() (*Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &env, nil
}

// Overrides holds values given on the command line. Zero values are unset.
type Overrides struct {
	Mailto      string
	CrossrefURL string
	Timeout     time.Duration
}

// Settings are the effective values for a run.
type Settings struct {
	Mailto      string        `json:"mailto"`
	CrossrefURL string        `json:"crossref_url"`
	Timeout     time.Duration `json:"timeout"`
}

// Resolve merges the layers with precedence flags > env > file > defaults
// and validates the result. file and env may be nil.
func Resolve(file *GlobalConfig, env *Env, flags Overrides) (Settings, error) {
	s := Settings{
		CrossrefURL: crossref.BaseURL,
		Timeout:     crossref.DefaultTimeout,
	}

	if file != nil {
		apply(&s, file.Mailto, file.CrossrefURL, seconds(file.TimeoutSeconds))
	}
	if env != nil {
		if env.TimeoutSeconds < 0 {
			return Settings{}, fmt.Errorf("%w: %s_TIMEOUT_SECONDS must not be negative", ErrInvalid, EnvPrefix)
		}
		apply(&s, env.Mailto, env.CrossrefURL, seconds(env.TimeoutSeconds))
	}
	if flags.Timeout < 0 {
		return Settings{}, fmt.Errorf("%w: timeout must not be negative", ErrInvalid)
	}
	apply(&s, flags.Mailto, flags.CrossrefURL, flags.Timeout)

	if err := validateURL(s.CrossrefURL); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func apply(s *Settings, mailto, crossrefURL string, timeout time.Duration) {
	if mailto != "" {
		s.Mailto = mailto
	}
	if crossrefURL != "" {
		s.CrossrefURL = crossrefURL
	}
	if timeout > 0 {
		s.Timeout = timeout
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: crossref url %q must be an absolute http(s) URL", ErrInvalid, raw)
	}
	return nil
}
