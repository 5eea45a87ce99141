// Package config loads adsheet settings from defaults, an optional
// adsheet.yaml, ADSHEET_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/eykd/adsheet-go/internal/checks"
	"github.com/eykd/adsheet-go/internal/mismatch"
	"github.com/eykd/adsheet-go/internal/rulestore"
)

// EnvPrefix prefixes every environment variable, e.g. ADSHEET_RULES_DIR.
const EnvPrefix = "ADSHEET"

// FileName is the config file name searched for without an extension.
const FileName = "adsheet"

// Keys shared with flag bindings.
const (
	KeyRulesDir           = "rules_dir"
	KeyCacheSize          = "cache_size"
	KeyCapsRatio          = "caps_ratio"
	KeyMaxEmoji           = "max_emoji"
	KeyMaxPunctuation     = "max_punctuation"
	KeyMismatchConfidence = "mismatch.confidence"
	KeyMismatchWorkers    = "mismatch.workers"
	KeyServerAddr         = "server.addr"
	KeyVerbose            = "verbose"
)

// DefaultAddr is the listen address of adsheet serve.
const DefaultAddr = "127.0.0.1:8080"

// Config is the resolved settings.
type Config struct {
	RulesDir       string         `mapstructure:"rules_dir"`
	CacheSize      int            `mapstructure:"cache_size" validate:"gt=0"`
	CapsRatio      float64        `mapstructure:"caps_ratio" validate:"gt=0,lte=1"`
	MaxEmoji       int            `mapstructure:"max_emoji" validate:"gte=0"`
	MaxPunctuation int            `mapstructure:"max_punctuation" validate:"gte=0"`
	Mismatch       MismatchConfig `mapstructure:"mismatch"`
	Server         ServerConfig   `mapstructure:"server"`
	Verbose        bool           `mapstructure:"verbose"`
}

// MismatchConfig tunes the mismatch detector.
type MismatchConfig struct {
	Confidence float64 `mapstructure:"confidence" validate:"gt=0,lte=1"`
	Workers    int     `mapstructure:"workers" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: %v fails %q", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}
	return nil
}

// SetDefaults registers a default for every key so that environment
// variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRulesDir, "")
	v.SetDefault(KeyCacheSize, rulestore.DefaultCacheSize)
	v.SetDefault(KeyCapsRatio, checks.DefaultMaxCapsRatio)
	v.SetDefault(KeyMaxEmoji, checks.DefaultMaxEmoji)
	v.SetDefault(KeyMaxPunctuation, checks.DefaultMaxPunctuation)
	v.SetDefault(KeyMismatchConfidence, mismatch.DefaultConfidence)
	v.SetDefault(KeyMismatchWorkers, 0)
	v.SetDefault(KeyServerAddr, DefaultAddr)
	v.SetDefault(KeyVerbose, false)
}

// Setup prepares v to read settings. An empty cfgFile searches the working
// directory and then $XDG_CONFIG_HOME/adsheet for adsheet.yaml.
func Setup(v *viper.Viper, fs afero.Fs, cfgFile string) {
	v.SetFs(fs)
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return
	}
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, FileName))
	}
}

// Load reads the config file, if any, and returns validated settings. A
// missing search-path file is not an error; a missing explicit file is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.UnmarshalExact(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
