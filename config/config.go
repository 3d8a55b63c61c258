package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
	"go.uber.org/zap"
)

const envPrefix = "FORKFUL"

type DB struct {
	Host               string `validate:"required"`
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string `validate:"required"`
	Database           string `default:"forkful"`
	SSLMode            string `default:"disable"`
	MaxIdleConnections int    `default:"10"`
	MaxOpenConnections int    `default:"25"`
}

type Server struct {
	Port int `default:"8080"`
	// FrontendURL is the base used to build shareable recipe links. It is
	// passed to the handler explicitly, never read from ambient state.
	FrontendURL string `default:"http://localhost:3000"`
}

type Redis struct {
	Addr     string `default:"localhost:6379"`
	Password string
	DB       int
}

type Auth struct {
	JWTSecret string        `fig:"jwt_secret" validate:"required"`
	TokenTTL  time.Duration `fig:"token_ttl" default:"24h"`
}

type Media struct {
	// Bucket switches image storage to S3 when set; otherwise decoded
	// images land in Dir and are served under /media.
	Bucket  string
	Region  string `default:"us-east-1"`
	BaseURL string `fig:"base_url"`
	Dir     string `default:"./media"`
}

type RateLimit struct {
	Limit  int           `default:"60"`
	Window time.Duration `default:"1m"`
}

type Config struct {
	DB        DB
	Server    Server
	Redis     Redis
	Auth      Auth
	Media     Media
	RateLimit RateLimit `fig:"rate_limit"`
}

// Load reads the config file, falling back to environment-only loading
// when no file is present. FORKFUL_* variables override file values.
func Load(configFileName string, logger *zap.Logger) (*Config, error) {
	config := Config{}
	homeDir, _ := os.UserHomeDir()

	logger.Info("loading config", zap.String("file", configFileName))

	// fig resolves File against Dirs, so a path like conf/forkful.yaml has
	// to be split into its directory and base name.
	err := fig.Load(&config,
		fig.File(filepath.Base(configFileName)),
		fig.Dirs(filepath.Dir(configFileName), ".", homeDir),
		fig.UseEnv(envPrefix))
	if err != nil {
		if strings.Contains(err.Error(), "file not found") {
			logger.Warn("could not find config file", zap.String("file", configFileName))

			if err = fig.Load(&config, fig.IgnoreFile(), fig.UseEnv(envPrefix)); err != nil {
				return nil, err
			}
			return &config, nil
		}
		return nil, err
	}

	return &config, nil
}
