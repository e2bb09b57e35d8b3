package main

//
// Configuration from the environment
//

import (
	"errors"
	"fmt"
	"time"

	"github.com/altroute/altroute/internal/backoff"
	"github.com/caarlos0/env/v7"
)

// environment contains the configuration read from the environment.
type environment struct {
	// APIURL is the base URL of the primary route.
	APIURL string `env:"ALTROUTE_API_URL,required"`

	// APIHost OPTIONALLY overrides the host header for alternative routes.
	APIHost string `env:"ALTROUTE_API_HOST"`

	// Domain is the domain resolved to discover alternative routes.
	Domain string `env:"ALTROUTE_DOMAIN,required"`

	// DoHProviders are the DoH providers to use, in order.
	DoHProviders []string `env:"ALTROUTE_DOH_PROVIDERS" envSeparator:"," envDefault:"https://dns11.quad9.net/dns-query,https://dns.google/dns-query"`

	// StateDir is the directory where we persist state.
	StateDir string `env:"ALTROUTE_STATE_DIR" envDefault:"${HOME}/.altroute" envExpand:"true"`

	// ActivePeriod is how long the alternative route that last won a race
	// remains the active route.
	ActivePeriod time.Duration `env:"ALTROUTE_ACTIVE_PERIOD" envDefault:"24h"`

	// DoHTimeout bounds both racing the alternative routes and discovering
	// them using DoH.
	DoHTimeout time.Duration `env:"ALTROUTE_DOH_TIMEOUT" envDefault:"60s"`

	// BackoffRetries is the number of retries after the first attempt when
	// a call uses backoff.
	BackoffRetries int `env:"ALTROUTE_BACKOFF_RETRIES" envDefault:"2"`

	// BackoffInitialDelay is the delay before the first retry.
	BackoffInitialDelay time.Duration `env:"ALTROUTE_BACKOFF_INITIAL_DELAY" envDefault:"500ms"`

	// BackoffRatio multiplies the delay after each retry.
	BackoffRatio float64 `env:"ALTROUTE_BACKOFF_RATIO" envDefault:"2"`

	// AlternativeRouting is the user setting allowing alternative routes.
	AlternativeRouting bool `env:"ALTROUTE_ALTERNATIVE_ROUTING" envDefault:"true"`

	// TunnelActive tells whether a tunnel is up, which disables
	// alternative routing.
	TunnelActive bool `env:"ALTROUTE_TUNNEL_ACTIVE" envDefault:"false"`
}

// errInvalidEnvironment is returned by [*environment.validate].
var errInvalidEnvironment = errors.New("invalid environment")

// parseEnvironment reads the configuration.
func parseEnvironment() (envs *environment, err error) {
	envs = &environment{}
	if err = env.Parse(envs); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err = envs.validate(); err != nil {
		return nil, err
	}
	return envs, nil
}

// backoffPolicy returns the configured backoff policy.
func (envs *environment) backoffPolicy() backoff.Policy {
	return backoff.Policy{
		RetryCount:   envs.BackoffRetries,
		InitialDelay: envs.BackoffInitialDelay,
		Ratio:        envs.BackoffRatio,
	}
}

// validate returns an error if the configuration is not usable.
func (envs *environment) validate() error {
	var errs []error
	if err := envs.backoffPolicy().Validate(); err != nil {
		errs = append(errs, err)
	}
	if envs.ActivePeriod <= 0 {
		errs = append(errs, fmt.Errorf("ALTROUTE_ACTIVE_PERIOD: must be positive, got %s", envs.ActivePeriod))
	}
	if envs.DoHTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ALTROUTE_DOH_TIMEOUT: must be positive, got %s", envs.DoHTimeout))
	}
	if envs.Domain == "" {
		errs = append(errs, errors.New("ALTROUTE_DOMAIN: must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", errInvalidEnvironment, errors.Join(errs...))
	}
	return nil
}
