package cliparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Server modes
const (
	ModeFull   = "full"
	ModeStatic = "static"
	ModeDemo   = "demo"
)

// Store backends
const (
	StoreJSON     = "json"
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

// Development secrets used in demo mode when nothing is configured
const (
	demoAdminPassword = "memojo2025admin"
	demoJWTSecret     = "memojo_test_secret_key"
	demoCookieSecret  = "memojo_test_cookie_secret"
)

type Config struct {
	Port      int
	Mode      string
	StaticDir string
	EnvFile   string

	StoreType   string
	StorePath   string
	DatabaseURL string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string
	CookieSecret      string

	AllowedOrigins []string
	Production     bool

	LogLevel  string
	LogFormat string
}

// ServesAPI reports whether the /api routes are mounted in this mode
func (c Config) ServesAPI() bool {
	return c.Mode != ModeStatic
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string

	fs := pflag.NewFlagSet("memojo", pflag.ContinueOnError)

	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "dotenv file to load (ignored if missing)")

	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&cfg.Mode, "mode", "m", "", "Server mode (full, static or demo)")
	fs.StringVar(&cfg.StaticDir, "static-dir", "", "Directory with the landing page assets")
	fs.StringVar(&origins, "allowed-origins", "", "Comma separated CORS origins")
	fs.BoolVar(&cfg.Production, "production", false, "Mark cookies Secure")

	// Storage
	fs.StringVarP(&cfg.StoreType, "store", "s", "", "Store backend (json, memory, sqlite, postgres, badger)")
	fs.StringVar(&cfg.StorePath, "store-path", "", "JSON file or badger directory")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL for sqlite/postgres")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminUsername, "admin-username", "", "Admin username")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin password (prefer env)")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-password-hash", "", "Bcrypt hash of the admin password (prefer env)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env)")
	fs.StringVar(&cfg.CookieSecret, "cookie-secret", "", "Cookie signing secret (prefer env)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	cfg.Mode = fallback(cfg.Mode, "MODE", ModeFull)
	switch cfg.Mode {
	case ModeFull, ModeStatic, ModeDemo:
	default:
		return Config{}, fmt.Errorf("unknown mode %q (use full, static or demo)", cfg.Mode)
	}
	cfg.StaticDir = fallback(cfg.StaticDir, "STATIC_DIR", "public")

	if !cfg.Production {
		cfg.Production = os.Getenv("APP_ENV") == "production"
	}

	if origins == "" {
		origins = fallback("", "CORS_ORIGINS", "http://localhost:8000,http://127.0.0.1:8000")
	}
	cfg.AllowedOrigins = splitList(origins)

	cfg.LogLevel = fallback(cfg.LogLevel, "LOG_LEVEL", "info")
	cfg.LogFormat = fallback(cfg.LogFormat, "LOG_FORMAT", "text")

	cfg.AdminUsername = fallback(cfg.AdminUsername, "ADMIN_USERNAME", "admin")
	cfg.AdminPassword = fallback(cfg.AdminPassword, "ADMIN_PASSWORD", "")
	cfg.AdminPasswordHash = fallback(cfg.AdminPasswordHash, "ADMIN_PASSWORD_HASH", "")
	cfg.JWTSecret = fallback(cfg.JWTSecret, "JWT_SECRET", "")
	cfg.CookieSecret = fallback(cfg.CookieSecret, "COOKIE_SECRET", "")

	// Demo mode runs without any configuration
	if cfg.Mode == ModeDemo {
		cfg.StoreType = StoreMemory
		if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
			cfg.AdminPassword = demoAdminPassword
		}
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = demoJWTSecret
		}
		if cfg.CookieSecret == "" {
			cfg.CookieSecret = demoCookieSecret
		}
	}

	if cfg.EnvFile != "" && PathWithin(cfg.StaticDir, cfg.EnvFile) {
		return Config{}, fmt.Errorf("env file %s is inside the static directory %s", cfg.EnvFile, cfg.StaticDir)
	}

	// Static mode serves files only, nothing else is needed
	if cfg.Mode == ModeStatic {
		return cfg, nil
	}

	if err := cfg.parseStore(); err != nil {
		return Config{}, err
	}
	if cfg.StorePath != "" && PathWithin(cfg.StaticDir, cfg.StorePath) {
		return Config{}, fmt.Errorf("store path %s is inside the static directory %s", cfg.StorePath, cfg.StaticDir)
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return Config{}, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	if cfg.CookieSecret == "" {
		return Config{}, errors.New("COOKIE_SECRET required")
	}

	return cfg, nil
}

func (cfg *Config) parseStore() error {
	cfg.StoreType = fallback(cfg.StoreType, "STORE_TYPE", StoreJSON)
	cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", "")

	switch cfg.StoreType {
	case StoreJSON:
		cfg.StorePath = fallback(cfg.StorePath, "STORE_PATH", "db.json")
	case StoreBadger:
		cfg.StorePath = fallback(cfg.StorePath, "STORE_PATH", "data")
	case StoreSQLite, StorePostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", cfg.StoreType)
	}
	return nil
}

// PathWithin reports whether path is dir itself or lies below it
func PathWithin(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// fallback returns value, else the env variable, else def
func fallback(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
