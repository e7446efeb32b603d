package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PNEUMO"

// Config holds every knob the server and the demo read at startup.
// Values come from flags, PNEUMO_* environment variables and an
// optional .env file, in that order of precedence.
type Config struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	DemoPort      int    `mapstructure:"demo_port"`
	Environment   string `mapstructure:"environment"`
	ModelPath     string `mapstructure:"model_path"`
	MetadataPath  string `mapstructure:"metadata_path"`
	PublicDir     string `mapstructure:"public_dir"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

func setDefaults() {
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 5001)
	viper.SetDefault("demo_port", 7860)
	viper.SetDefault("environment", "development")
	viper.SetDefault("model_path", "models/pneumonia.onnx")
	viper.SetDefault("metadata_path", "models/model_metadata.json")
	viper.SetDefault("public_dir", "web/static")
	viper.SetDefault("max_upload_size", 10<<20)
}

// Load reads the configuration once at process start.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`, `.`, `_`))
	viper.AutomaticEnv()
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
