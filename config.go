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
	GitCommit          string        `yaml:"git_commit" envconfig:"SLIB_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"SLIB_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"SLIB_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"SLIB_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"SLIB_LOG_LEVEL"`
	LogFile            string        `yaml:"log_file" envconfig:"SLIB_LOG_FILE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"SLIB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Store              StoreConfig   `yaml:"store"`
	Audit              AuditConfig   `yaml:"audit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"SLIB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"SLIB_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SLIB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SLIB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"SLIB_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SLIB_SERVER_SHUTDOWN_TIMEOUT"`
}

// StoreConfig locates the persisted aggregate. With CreateIfMissing
// set a missing file is initialized instead of failing the boot.
type StoreConfig struct {
	FilePath        string `yaml:"filepath" envconfig:"SLIB_STORE_FILE_PATH"`
	CreateIfMissing bool   `yaml:"create_if_missing" envconfig:"SLIB_STORE_CREATE_IF_MISSING"`
}

// AuditConfig drives the boltdb-backed audit trail.
type AuditConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"SLIB_AUDIT_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"SLIB_AUDIT_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"SLIB_AUDIT_BUCKET_NAME"`
	QueueSize  int           `yaml:"queue_size" envconfig:"SLIB_AUDIT_QUEUE_SIZE"`
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

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
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

	if len(config.Store.FilePath) == 0 {
		return errors.New("make sure to set a valid store file path in configuration file")
	}

	if len(config.Audit.FilePath) == 0 {
		config.Audit.FilePath = "./slib.audit.db"
	}

	if config.Audit.QueueSize <= 0 {
		config.Audit.QueueSize = 1024
	}

	if len(config.Audit.BucketName) == 0 {
		config.Audit.BucketName = "audit"
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

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `SLIB`.
	err = LoadConfigEnvs("SLIB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
