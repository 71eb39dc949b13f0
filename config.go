package main

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "1.0.0"

type Config struct {
	APIURL         string
	APITimeout     time.Duration
	AllowedOrigins []string
	Bind           string
	CategoryIDs    []int
	CookieMaxAge   time.Duration
	Port           int
	Production     bool
	RateLimitBurst int
	RateLimitRPS   int
	ResultDelay    time.Duration
	SessionTimeout time.Duration
	StaticCacheAge time.Duration
	Verbose        bool

	categoryIDs string
}

// defaultConfig mirrors the flag defaults; used by tests and newCmd alike.
func defaultConfig() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		APITimeout:     10 * time.Second,
		Bind:           "0.0.0.0",
		CategoryIDs:    slices.Clone(DefaultCategoryIDs),
		CookieMaxAge:   2 * time.Hour,
		Port:           8080,
		RateLimitBurst: 10,
		RateLimitRPS:   5,
		ResultDelay:    ResultDisplayDelay,
		SessionTimeout: 2 * time.Hour,
		StaticCacheAge: 5 * time.Minute,
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.APIURL, err)
	}
	if c.categoryIDs != "" {
		ids, err := parseCategoryIDs(c.categoryIDs)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return errors.New("at least one category id is required")
		}
		c.CategoryIDs = ids
	}
	if len(c.CategoryIDs) == 0 {
		c.CategoryIDs = slices.Clone(DefaultCategoryIDs)
	}
	if c.ResultDelay <= 0 {
		return fmt.Errorf("invalid result delay: %v", c.ResultDelay)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("invalid rate limit rps: %d", c.RateLimitRPS)
	}
	return nil
}

// parseCategoryIDs parses a comma separated list such as "1892, 4483,88".
func parseCategoryIDs(raw string) ([]int, error) {
	fields := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Config) env() string {
	return map[bool]string{true: "production", false: "development"}[c.Production]
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "triviashow",
		Short:         "A single-page trivia board served over HTTP.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	d := defaultConfig()
	fs.StringVar(&cfg.APIURL, "api-url", d.APIURL, "trivia category endpoint (env: TRIVIA_API_URL)")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", d.APITimeout, "timeout for each category request (env: TRIVIA_API_TIMEOUT)")
	fs.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", nil, "origins allowed to read /api (env: TRIVIA_ALLOWED_ORIGINS)")
	fs.StringVarP(&cfg.Bind, "bind", "b", d.Bind, "address to bind to (env: TRIVIA_BIND)")
	fs.StringVar(&cfg.categoryIDs, "category-ids", "", "comma separated category ids to play (env: TRIVIA_CATEGORY_IDS)")
	fs.DurationVar(&cfg.CookieMaxAge, "cookie-max-age", d.CookieMaxAge, "session cookie lifetime (env: TRIVIA_COOKIE_MAX_AGE)")
	fs.IntVarP(&cfg.Port, "port", "p", d.Port, "port to listen on (env: TRIVIA_PORT)")
	fs.BoolVar(&cfg.Production, "production", false, "serve minified assets and production cache headers (env: TRIVIA_PRODUCTION)")
	fs.IntVar(&cfg.RateLimitBurst, "rate-limit-burst", d.RateLimitBurst, "burst size of the per-client limiter (env: TRIVIA_RATE_LIMIT_BURST)")
	fs.IntVar(&cfg.RateLimitRPS, "rate-limit-rps", d.RateLimitRPS, "requests per second per client (env: TRIVIA_RATE_LIMIT_RPS)")
	fs.DurationVar(&cfg.ResultDelay, "result-delay", d.ResultDelay, "how long the result card is shown (env: TRIVIA_RESULT_DELAY)")
	fs.DurationVar(&cfg.SessionTimeout, "session-timeout", d.SessionTimeout, "time before idle boards are discarded (env: TRIVIA_SESSION_TIMEOUT)")
	fs.DurationVar(&cfg.StaticCacheAge, "static-cache-age", d.StaticCacheAge, "max-age for static assets in production (env: TRIVIA_STATIC_CACHE_AGE)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display debug output (env: TRIVIA_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("triviashow v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
