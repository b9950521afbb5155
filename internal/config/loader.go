package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to flag names to form environment overrides, e.g.
// BRANCHSWEEP_MAX_IDLE_DAYS for --max-idle-days.
const EnvPrefix = "BRANCHSWEEP"

// Load fills flags the user did not set on the command line from, in order of
// precedence, BRANCHSWEEP_* environment variables and the optional YAML file
// at configFile. Flags named in skip are never overridden.
//
// Keys in the file use the flag names verbatim:
//
//	repo-url: https://github.com/acme/widgets
//	max-idle-days: 30
//	exclude-branches: release-1, release-2
//
// It returns the config file actually read (empty when none).
func Load(flagSet *pflag.FlagSet, configFile string, skip ...string) (string, error) {
	if flagSet == nil {
		return "", fmt.Errorf("config: flag set is nil")
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	var applyErr error
	flagSet.VisitAll(func(f *pflag.Flag) {
		if applyErr != nil || f.Changed || skipped[f.Name] {
			return
		}
		if !v.IsSet(f.Name) {
			return
		}
		value := stringValue(v.Get(f.Name))
		if err := f.Value.Set(value); err != nil {
			applyErr = fmt.Errorf("invalid configuration value for %s: %w", f.Name, err)
		}
	})
	if applyErr != nil {
		return "", applyErr
	}

	return v.ConfigFileUsed(), nil
}

func stringValue(raw any) string {
	switch t := raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
