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

// Supported storage backends.
const (
	FileBackend  = "file"
	BoltBackend  = "bolt"
	RedisBackend = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"BSAP_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"BSAP_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BSAP_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"BSAP_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"BSAP_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"BSAP_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"BSAP_LOG_MAX_SIZE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"BSAP_OPS_ENDPOINTS_ENABLE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"BSAP_PROFILER_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Auth               AuthConfig    `yaml:"auth"`
	Storage            StorageConfig `yaml:"storage"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Redis              RedisConfig   `yaml:"redis"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSAP_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSAP_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSAP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSAP_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BSAP_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSAP_SERVER_SHUTDOWN_TIMEOUT"`
}

// AuthConfig holds the static bearer token expected on write endpoints.
// This is a placeholder credential, not an account system.
type AuthConfig struct {
	Token string `yaml:"token" envconfig:"BSAP_AUTH_TOKEN" json:"-"`
}

// StorageConfig selects the catalog storage backend and the
// documents locations for the file-based one.
type StorageConfig struct {
	Backend     string `yaml:"backend" envconfig:"BSAP_STORAGE_BACKEND"`
	BooksFile   string `yaml:"books_file" envconfig:"BSAP_STORAGE_BOOKS_FILE"`
	ReviewsFile string `yaml:"reviews_file" envconfig:"BSAP_STORAGE_REVIEWS_FILE"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSAP_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSAP_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSAP_BOLTDB_BUCKET_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSAP_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSAP_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSAP_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSAP_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSAP_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSAP_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSAP_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSAP_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSAP_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSAP_REDIS_DATABASE_INDEX"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and overlays them on the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig sets defaults values for non provided parameters
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

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Auth.Token) == 0 {
		return errors.New("make sure to set the api write token in configuration file")
	}

	if len(config.Storage.Backend) == 0 {
		config.Storage.Backend = FileBackend
	}

	switch config.Storage.Backend {
	case FileBackend:
		if len(config.Storage.BooksFile) == 0 {
			config.Storage.BooksFile = "data/books.json"
		}
		if len(config.Storage.ReviewsFile) == 0 {
			config.Storage.ReviewsFile = "data/reviews.json"
		}
	case BoltBackend:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	case RedisBackend:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage backend in configuration file: %q", config.Storage.Backend)
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if len(config.LogFolder) == 0 {
		config.LogFolder = "logs"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then builds the App configuration data. The config.env file is optional.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	if err = godotenv.Load("./config.env"); err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BSAP`.
	err = LoadConfigEnvs("BSAP", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
