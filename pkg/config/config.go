// Package config loads netsig configuration from layered sources: hardcoded
// defaults, an optional YAML config file, and command-line flags. Sources are
// loaded in priority order (lowest first), with higher priority sources
// overriding lower priority values.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/netsig/netsig/pkg/detect"
)

// Config is the resolved netsig configuration.
type Config struct {
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
	Catalog struct {
		// Path to a signature catalog file that replaces the built-in set.
		Path string `koanf:"path"`
	} `koanf:"catalog"`
	Output struct {
		// Format is "table" or "json".
		Format string `koanf:"format"`
	} `koanf:"output"`
	Confidence struct {
		PortOnly    float64 `koanf:"port_only"`
		PatternOnly float64 `koanf:"pattern_only"`
		Combined    float64 `koanf:"combined"`
	} `koanf:"confidence"`
}

// Policy converts the configured confidence tiers into a detection policy.
func (c *Config) Policy() detect.Policy {
	return detect.Policy{
		PortOnly:    c.Confidence.PortOnly,
		PatternOnly: c.Confidence.PatternOnly,
		Combined:    c.Confidence.Combined,
	}
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("output.format must be table or json, got %q", c.Output.Format)
	}
	return nil
}

// Source is a configuration layer that can load values into koanf.
type Source interface {
	// Name returns a human-readable name for logging and error reporting.
	Name() string
	// Priority orders loading; lower values load first and are overridden by
	// higher ones.
	Priority() int
	// Load loads the layer's values into k.
	Load(k *koanf.Koanf) error
}

// DefaultSource provides hardcoded default values. Priority 10.
type DefaultSource struct{}

func (s *DefaultSource) Name() string  { return "defaults" }
func (s *DefaultSource) Priority() int { return 10 }

func (s *DefaultSource) Load(k *koanf.Koanf) error {
	defaults := map[string]interface{}{
		"log.level":               "error",
		"catalog.path":            "",
		"output.format":           "table",
		"confidence.port_only":    detect.DefaultPortOnlyConfidence,
		"confidence.pattern_only": detect.DefaultPatternOnlyConfidence,
		"confidence.combined":     detect.DefaultCombinedConfidence,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return fmt.Errorf("error loading defaults: %w", err)
	}
	return nil
}

// FileSource loads configuration from a YAML file. A missing or empty path is
// skipped silently. Priority 20.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string  { return "file:" + s.Path }
func (s *FileSource) Priority() int { return 20 }

func (s *FileSource) Load(k *koanf.Koanf) error {
	if s.Path == "" {
		return nil
	}
	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error checking config file %s: %w", s.Path, err)
	}
	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return fmt.Errorf("error loading config file %s: %w", s.Path, err)
	}
	return nil
}

// FlagSource loads configuration from command-line flags. Flag names map to
// config keys by replacing dashes with dots (log-level -> log.level).
// Priority 40.
type FlagSource struct {
	Flags *pflag.FlagSet
}

func (s *FlagSource) Name() string  { return "flags" }
func (s *FlagSource) Priority() int { return 40 }

func (s *FlagSource) Load(k *koanf.Koanf) error {
	if s.Flags == nil {
		return nil
	}
	provider := posflag.ProviderWithFlag(s.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil // keep lower priority value
		}
		return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(s.Flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("error loading flags: %w", err)
	}
	return nil
}

// BindFlags registers the config-backed flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.String("catalog-path", "", "Signature catalog file replacing the built-in set")
	fs.String("output-format", "", "Output format (table or json)")
}

// Load resolves the configuration from the given sources, applies them in
// priority order and validates the result.
func Load(sources ...Source) (*Config, error) {
	k := koanf.New(".")

	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority() < ordered[j].Priority() })

	for _, src := range ordered {
		if err := src.Load(k); err != nil {
			return nil, fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStandard resolves configuration with the standard layering: defaults,
// then configFile, then flags.
func LoadStandard(configFile string, flags *pflag.FlagSet) (*Config, error) {
	return Load(
		&DefaultSource{},
		&FileSource{Path: configFile},
		&FlagSource{Flags: flags},
	)
}
