package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from the environment,
// an optional config file, and command-line flags.
type Config struct {
	Port          int
	AuditEndpoint string
	AuditTimeout  time.Duration

	FetchTimeout   time.Duration
	MaxRetries     int
	MaxConcurrency int
	RateLimitMs    int
	UseBrowser     bool
	ChromeBin      string

	DefaultLang      string
	LogLevel         string
	AllowedOrigins   []string
	KeepStaleResults bool
}

// Keys understood by Load. Each can be set as a plain env var, an HB_
// prefixed env var, a key in the config file, or a bound cobra flag.
const (
	KeyPort             = "port"
	KeyAuditEndpoint    = "audit_endpoint"
	KeyAuditTimeoutSec  = "audit_timeout_sec"
	KeyFetchTimeoutSec  = "fetch_timeout_sec"
	KeyMaxRetries       = "max_retries"
	KeyMaxConcurrency   = "max_concurrency"
	KeyRateLimitMs      = "rate_limit_ms"
	KeyUseBrowser       = "use_browser"
	KeyChromeBin        = "chrome_bin"
	KeyDefaultLang      = "default_lang"
	KeyLogLevel         = "log_level"
	KeyAllowedOrigins   = "allowed_origins"
	KeyKeepStaleResults = "keep_stale_results"
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyAuditEndpoint, "")
	v.SetDefault(KeyAuditTimeoutSec, 30)
	v.SetDefault(KeyFetchTimeoutSec, 10)
	v.SetDefault(KeyMaxRetries, 3)
	v.SetDefault(KeyMaxConcurrency, 3)
	v.SetDefault(KeyRateLimitMs, 500)
	v.SetDefault(KeyUseBrowser, false)
	v.SetDefault(KeyChromeBin, "")
	v.SetDefault(KeyDefaultLang, "ja")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAllowedOrigins, "http://localhost:5173,https://housingbriidgeaudit.vercel.app")
	v.SetDefault(KeyKeepStaleResults, false)
}

// Bind wires v to the environment. Both PORT and HB_PORT style names work;
// the prefixed one wins when both are set.
func Bind(v *viper.Viper) {
	for _, key := range []string{
		KeyPort, KeyAuditEndpoint, KeyAuditTimeoutSec, KeyFetchTimeoutSec,
		KeyMaxRetries, KeyMaxConcurrency, KeyRateLimitMs, KeyUseBrowser,
		KeyChromeBin, KeyDefaultLang, KeyLogLevel, KeyAllowedOrigins,
		KeyKeepStaleResults,
	} {
		env := strings.ToUpper(key)
		_ = v.BindEnv(key, "HB_"+env, env)
	}
}

// Load reads the .env file, then resolves the configuration through v.
// Passing nil uses a fresh viper instance.
func Load(v *viper.Viper) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	Bind(v)

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:          v.GetInt(KeyPort),
		AuditEndpoint: strings.TrimRight(v.GetString(KeyAuditEndpoint), "/"),
		AuditTimeout:  time.Duration(v.GetInt(KeyAuditTimeoutSec)) * time.Second,

		FetchTimeout:   time.Duration(v.GetInt(KeyFetchTimeoutSec)) * time.Second,
		MaxRetries:     v.GetInt(KeyMaxRetries),
		MaxConcurrency: v.GetInt(KeyMaxConcurrency),
		RateLimitMs:    v.GetInt(KeyRateLimitMs),
		UseBrowser:     v.GetBool(KeyUseBrowser),
		ChromeBin:      v.GetString(KeyChromeBin),

		DefaultLang:      strings.ToLower(v.GetString(KeyDefaultLang)),
		LogLevel:         v.GetString(KeyLogLevel),
		AllowedOrigins:   splitList(v.GetString(KeyAllowedOrigins)),
		KeepStaleResults: v.GetBool(KeyKeepStaleResults),
	}
	// Without an explicit endpoint the wizard audits through this server.
	if cfg.AuditEndpoint == "" {
		cfg.AuditEndpoint = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return cfg
}

// RateLimit returns the minimum spacing between listing fetches.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitMs) * time.Millisecond
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
