package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"SHELF_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"SHELF_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"SHELF_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"SHELF_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"SHELF_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" envconfig:"SHELF_LOG_FILE"`
	Server       ServerConfig  `yaml:"server"`
	Data         DataConfig    `yaml:"data"`
	OpenBD       OpenBDConfig  `yaml:"openbd"`
	Covers       CoversConfig  `yaml:"covers"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"SHELF_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"SHELF_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SHELF_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SHELF_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHELF_SERVER_SHUTDOWN_TIMEOUT"`
}

type DataConfig struct {
	Dir            string `yaml:"dir" envconfig:"SHELF_DATA_DIR"`
	ImpressionsDir string `yaml:"impressions_dir" envconfig:"SHELF_DATA_IMPRESSIONS_DIR"`
	OutputDir      string `yaml:"output_dir" envconfig:"SHELF_DATA_OUTPUT_DIR"`
}

type OpenBDConfig struct {
	BaseURL    string        `yaml:"base_url" envconfig:"SHELF_OPENBD_BASE_URL"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"SHELF_OPENBD_TIMEOUT"`
	MaxRetries int           `yaml:"max_retries" envconfig:"SHELF_OPENBD_MAX_RETRIES"`
	RetryDelay time.Duration `yaml:"retry_delay" envconfig:"SHELF_OPENBD_RETRY_DELAY"`
}

type CoversConfig struct {
	NDLBaseURL     string        `yaml:"ndl_base_url" envconfig:"SHELF_COVERS_NDL_BASE_URL"`
	RakutenBaseURL string        `yaml:"rakuten_base_url" envconfig:"SHELF_COVERS_RAKUTEN_BASE_URL"`
	GoogleBooksURL string        `yaml:"google_books_url" envconfig:"SHELF_COVERS_GOOGLE_BOOKS_URL"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout" envconfig:"SHELF_COVERS_PROBE_TIMEOUT"`
	NDLTimeout     time.Duration `yaml:"ndl_timeout" envconfig:"SHELF_COVERS_NDL_TIMEOUT"`
	GoogleTimeout  time.Duration `yaml:"google_timeout" envconfig:"SHELF_COVERS_GOOGLE_TIMEOUT"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	cfg := &Config{}
	file, err := os.Open(configFile)
	if errors.Is(err, os.ErrNotExist) {
		// No config file means defaults only. The CLI commands must
		// work from a bare checkout.
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	yd := yaml.NewDecoder(file)
	if err = yd.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig sets up defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.LogFile) == 0 {
		config.LogFile = "logs/bookshelf.log"
	}

	if len(config.Server.Host) == 0 {
		config.Server.Host = "127.0.0.1"
	}
	if len(config.Server.Port) == 0 {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 10 * time.Second
	}

	if len(config.Data.Dir) == 0 {
		config.Data.Dir = "data"
	}
	if len(config.Data.ImpressionsDir) == 0 {
		config.Data.ImpressionsDir = "data/impressions"
	}
	if len(config.Data.OutputDir) == 0 {
		config.Data.OutputDir = "output"
	}

	if len(config.OpenBD.BaseURL) == 0 {
		config.OpenBD.BaseURL = "https://api.openbd.jp"
	}
	if config.OpenBD.Timeout == 0 {
		config.OpenBD.Timeout = 10 * time.Second
	}
	if config.OpenBD.MaxRetries == 0 {
		config.OpenBD.MaxRetries = 3
	}
	if config.OpenBD.RetryDelay == 0 {
		config.OpenBD.RetryDelay = 1 * time.Second
	}

	if len(config.Covers.NDLBaseURL) == 0 {
		config.Covers.NDLBaseURL = "https://iss.ndl.go.jp"
	}
	if len(config.Covers.RakutenBaseURL) == 0 {
		config.Covers.RakutenBaseURL = "https://thumbnail.image.rakuten.co.jp"
	}
	if len(config.Covers.GoogleBooksURL) == 0 {
		config.Covers.GoogleBooksURL = "https://www.googleapis.com/books/v1/volumes"
	}
	if config.Covers.ProbeTimeout == 0 {
		config.Covers.ProbeTimeout = 2 * time.Second
	}
	if config.Covers.NDLTimeout == 0 {
		config.Covers.NDLTimeout = 1 * time.Second
	}
	if config.Covers.GoogleTimeout == 0 {
		config.Covers.GoogleTimeout = 5 * time.Second
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration. The env file is optional.
	if err = godotenv.Load("./config.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `SHELF`.
	err = LoadConfigEnvs("SHELF", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
