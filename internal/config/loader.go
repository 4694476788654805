package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".commitpulse"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for commitpulse settings.
const envPrefix = "COMMITPULSE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	err := viperCfg.BindEnv("avatars.token", envPrefix+"_AVATARS_TOKEN", "GITHUB_TOKEN")
	if err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, homeErr := os.UserHomeDir()
		if homeErr == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("cloud.url", DefaultCloudURL)
	viperCfg.SetDefault("cloud.timeout", DefaultCloudTimeout)

	viperCfg.SetDefault("avatars.github", DefaultAvatarsGitHub)
	viperCfg.SetDefault("avatars.token", "")
	viperCfg.SetDefault("avatars.cache_size", DefaultAvatarsCacheSize)
	viperCfg.SetDefault("avatars.timeout", DefaultAvatarsTimeout)

	viperCfg.SetDefault("scan.max_depth", DefaultScanMaxDepth)

	viperCfg.SetDefault("output.dir", DefaultOutputDir())
	viperCfg.SetDefault("output.theme", DefaultOutputTheme)

	viperCfg.SetDefault("languages.extra", []LanguageMapping{})
	viperCfg.SetDefault("languages.vendor_filter", DefaultVendorFilter)

	viperCfg.SetDefault("log.json", DefaultLogJSON)
}
