package configloader

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Token header formats for the report.
const (
	TokenHeaderToken        = "token"
	TokenHeaderNetworkToken = "network_token"
)

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// InputConfig points to the wallet and network list files.
type InputConfig struct {
	WalletsFile  string `yaml:"walletsFile"`
	NetworksFile string `yaml:"networksFile"`
}

// OutputConfig describes the spreadsheet that is produced.
type OutputConfig struct {
	File              string `yaml:"file"`
	SheetName         string `yaml:"sheetName"`
	TokenHeaderFormat string `yaml:"tokenHeaderFormat"` // "token" or "network_token"
}

// ThrottleConfig bounds the randomized pause taken after every network query.
type ThrottleConfig struct {
	MinDelaySeconds float64 `yaml:"minDelaySeconds"`
	MaxDelaySeconds float64 `yaml:"maxDelaySeconds"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	CallTimeoutSeconds int     `yaml:"callTimeoutSeconds"` // 0 keeps the transport default
	RateLimit          float64 `yaml:"rateLimit"`          // requests per second per endpoint, 0 disables
	BurstLimit         int     `yaml:"burstLimit"`
}

// MetricsConfig enables pushing run metrics to a Prometheus Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayURL"`
	JobName        string `yaml:"jobName"`
}

// Config is the top-level configuration structure.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
	RpcClient RpcClientConfig `yaml:"rpcClient"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Input: InputConfig{
			WalletsFile:  "wallets.txt",
			NetworksFile: "networks.txt",
		},
		Output: OutputConfig{
			File:              "balances.xlsx",
			SheetName:         "Balances",
			TokenHeaderFormat: TokenHeaderToken,
		},
		Throttle: ThrottleConfig{
			MinDelaySeconds: 0.1,
			MaxDelaySeconds: 0.3,
		},
		RpcClient: RpcClientConfig{
			BurstLimit: 1,
		},
		Metrics: MetricsConfig{
			JobName: "balance_exporter",
		},
	}
}

// Load reads the YAML configuration file from the given path and unmarshals it
// over the defaults. Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and fills empty strings with defaults.
func (c *Config) Validate() error {
	defaults := Default()

	if c.Input.WalletsFile == "" {
		c.Input.WalletsFile = defaults.Input.WalletsFile
	}
	if c.Input.NetworksFile == "" {
		c.Input.NetworksFile = defaults.Input.NetworksFile
	}
	if c.Output.File == "" {
		c.Output.File = defaults.Output.File
	}
	if c.Output.SheetName == "" {
		c.Output.SheetName = defaults.Output.SheetName
	}
	if c.Output.TokenHeaderFormat == "" {
		c.Output.TokenHeaderFormat = defaults.Output.TokenHeaderFormat
	}
	if c.Metrics.JobName == "" {
		c.Metrics.JobName = defaults.Metrics.JobName
	}

	switch c.Output.TokenHeaderFormat {
	case TokenHeaderToken, TokenHeaderNetworkToken:
	default:
		return fmt.Errorf("%w: unknown output.tokenHeaderFormat %q", ErrInvalidConfig, c.Output.TokenHeaderFormat)
	}
	if c.Throttle.MinDelaySeconds < 0 || c.Throttle.MaxDelaySeconds < 0 {
		return fmt.Errorf("%w: throttle delays must not be negative", ErrInvalidConfig)
	}
	if c.Throttle.MinDelaySeconds > c.Throttle.MaxDelaySeconds {
		return fmt.Errorf("%w: throttle.minDelaySeconds (%v) exceeds throttle.maxDelaySeconds (%v)",
			ErrInvalidConfig, c.Throttle.MinDelaySeconds, c.Throttle.MaxDelaySeconds)
	}
	if c.RpcClient.CallTimeoutSeconds < 0 {
		return fmt.Errorf("%w: rpcClient.callTimeoutSeconds must not be negative", ErrInvalidConfig)
	}
	if c.RpcClient.RateLimit < 0 {
		return fmt.Errorf("%w: rpcClient.rateLimit must not be negative", ErrInvalidConfig)
	}
	if c.RpcClient.BurstLimit <= 0 {
		c.RpcClient.BurstLimit = defaults.RpcClient.BurstLimit
	}
	return nil
}
