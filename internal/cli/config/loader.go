package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

// findConfigFile picks the config file to use.
// Priority: explicit path > rflogs.yaml > rflogs.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"rflogs.yaml", "rflogs.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration from file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// An explicit cfgFile that does not exist is an error; a missing implicit one
// is not.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"base_url": DefaultBaseURL,
		"verbose":  false,
		"format":   DefaultFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, when present.
	configFileUsed := findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: RFLOGS_API_KEY -> api_key.
	if err := k.Load(env.Provider("RFLOGS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "RFLOGS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = configFileUsed

	if _, err := output.ParseMode(cfg.Format); err != nil {
		return nil, err
	}
	return &cfg, nil
}
