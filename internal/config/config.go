package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all service configuration loaded from environment variables.
// It is built once at startup and handed to every component that needs it.
type Config struct {
	Port         string `koanf:"port"`
	GlobalPrefix string `koanf:"global_prefix"`
	ClientURL    string `koanf:"client_url"`

	MongoURI string `koanf:"mongodb_uri"`
	MongoDB  string `koanf:"mongodb_database"`

	JWTSecret    string        `koanf:"jwt_secret"`
	JWTAlgorithm string        `koanf:"jwt_algorithm"`
	JWTTTL       time.Duration `koanf:"jwt_ttl"`
	BcryptCost   int           `koanf:"bcrypt_cost"`

	OMDbAPIKey        string        `koanf:"omdb_api_key"`
	OMDbBaseURL       string        `koanf:"omdb_base_url"`
	OMDbDefaultSearch string        `koanf:"omdb_default_search"`
	OMDbTimeout       time.Duration `koanf:"omdb_timeout"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	AdminUsername string `koanf:"admin_username"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// Default returns the configuration used before the environment is applied.
func Default() Config {
	return Config{
		Port:              "8070",
		ClientURL:         "http://localhost:5173",
		MongoDB:           "movie_app",
		JWTAlgorithm:      "HS256",
		JWTTTL:            7 * 24 * time.Hour,
		BcryptCost:        10,
		OMDbBaseURL:       "https://www.omdbapi.com/",
		OMDbDefaultSearch: "Stanley Kubrick",
		OMDbTimeout:       10 * time.Second,
		LogLevel:          "info",
		LogFormat:         "json",
		AdminUsername:     "Admin",
		AdminEmail:        "admin@movieapp.com",
		AdminPassword:     "Password@123",
	}
}

// envAliases maps legacy variable names onto config keys.
var envAliases = map[string]string{
	"pw_salt": "bcrypt_cost",
}

// Load layers environment variables over Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	known := make(map[string]bool, len(k.Keys()))
	for _, key := range k.Keys() {
		known[key] = true
	}
	transform := func(s string) string {
		key := strings.ToLower(s)
		if alias, ok := envAliases[key]; ok {
			key = alias
		}
		if !known[key] {
			return ""
		}
		return key
	}
	if err := k.Load(env.Provider("", ".", transform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	return errors.Join(errs...)
}

// AllowedOrigins splits ClientURL into the CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.ClientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// RoutePrefix returns GlobalPrefix as a mount path ("" or "/api").
func (c *Config) RoutePrefix() string {
	p := strings.Trim(c.GlobalPrefix, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
