package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RemoteDriverFirestore = "firestore"
	RemoteDriverMemory    = "memory"
)

type Config struct {
	HTTPPort string
	LogLevel string

	StoragePath      string
	StorageBatchSize int

	RemoteDriver          string
	RemoteProjectID       string
	RemoteDatabaseID      string
	RemoteCredentialsFile string

	OutboundWorkers int
	OutboundBuffer  int

	ReconcileSchedule string

	SMSTimezone string
}

// ProcessEnvironmentVariables builds the Config from defaults, an optional
// config file named by MYMONEY_CONFIG, and MYMONEY_* environment variables.
// A .env file in the working directory is loaded first when present.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// In all cases the default behavior should be a single-device local setup
	v.SetDefault("http.port", "9446")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.path", "mymoney.db")
	v.SetDefault("storage.batch_size", 50)
	v.SetDefault("remote.driver", RemoteDriverMemory)
	v.SetDefault("remote.project_id", "")
	v.SetDefault("remote.database_id", "(default)")
	v.SetDefault("remote.credentials_file", "")
	v.SetDefault("outbound.workers", 4)
	v.SetDefault("outbound.buffer", 256)
	v.SetDefault("sync.reconcile_schedule", "")
	v.SetDefault("sms.timezone", "Local")

	if cfgPath := os.Getenv("MYMONEY_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	v.SetEnvPrefix("MYMONEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	env := Config{
		HTTPPort:              v.GetString("http.port"),
		LogLevel:              v.GetString("log.level"),
		StoragePath:           v.GetString("storage.path"),
		StorageBatchSize:      v.GetInt("storage.batch_size"),
		RemoteDriver:          strings.ToLower(v.GetString("remote.driver")),
		RemoteProjectID:       v.GetString("remote.project_id"),
		RemoteDatabaseID:      v.GetString("remote.database_id"),
		RemoteCredentialsFile: v.GetString("remote.credentials_file"),
		OutboundWorkers:       v.GetInt("outbound.workers"),
		OutboundBuffer:        v.GetInt("outbound.buffer"),
		ReconcileSchedule:     v.GetString("sync.reconcile_schedule"),
		SMSTimezone:           v.GetString("sms.timezone"),
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Config) validate() error {
	switch c.RemoteDriver {
	case RemoteDriverMemory:
	case RemoteDriverFirestore:
		if c.RemoteProjectID == "" {
			return fmt.Errorf("remote.project_id is required for the %s driver", RemoteDriverFirestore)
		}
	default:
		return fmt.Errorf("unknown remote.driver %q", c.RemoteDriver)
	}

	if c.StoragePath == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if c.StorageBatchSize < 1 {
		c.StorageBatchSize = 50
	}
	if c.OutboundWorkers < 1 {
		c.OutboundWorkers = 1
	}
	if c.OutboundBuffer < 1 {
		c.OutboundBuffer = 1
	}
	return nil
}
