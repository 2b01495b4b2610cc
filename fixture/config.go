package fixture

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDir is the first directory searched for fixture files.
const DefaultDir = "fixtures"

// TeardownStrategy selects how loaded fixture data is discarded.
type TeardownStrategy string

const (
	// TeardownRollback keeps every load inside an open transaction and rolls
	// it back on teardown. This is the default and the fastest isolation.
	TeardownRollback TeardownStrategy = "rollback"
	// TeardownTruncate commits each load and deletes from the touched tables
	// on teardown, for storage where rollback-based isolation is unavailable.
	TeardownTruncate TeardownStrategy = "truncate"
)

// Config holds fixture engine configuration.
type Config struct {
	// DefaultDir is searched first. Defaults to "fixtures".
	DefaultDir string `yaml:"default_dir" mapstructure:"default_dir" validate:"required"`

	// Dirs are extra search directories appended after DefaultDir, probed in
	// declared order. Paths are absolute or relative to the test working
	// directory.
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`

	// Teardown selects the teardown strategy.
	Teardown TeardownStrategy `yaml:"teardown" mapstructure:"teardown" validate:"required,oneof=rollback truncate"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DefaultDir == "" {
		c.DefaultDir = DefaultDir
	}
	if c.Teardown == "" {
		c.Teardown = TeardownRollback
	}
}

// Validate checks the configuration via struct tags.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid fixture config: %w", err)
	}
	return nil
}

// SearchDirs returns the full ordered search path: DefaultDir then Dirs.
func (c *Config) SearchDirs() []string {
	dirs := make([]string, 0, len(c.Dirs)+1)
	dirs = append(dirs, c.DefaultDir)
	dirs = append(dirs, c.Dirs...)
	return dirs
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// LoadConfig builds a Config from the environment. FIXTURES_DIRS holds extra
// search directories separated by the OS path-list separator; FIXTURES_TEARDOWN
// and FIXTURES_DEFAULT_DIR override the corresponding fields. A .env file in
// the working directory is loaded first when present, matching how the rest
// of a test process picks up its configuration.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FIXTURES")
	v.AutomaticEnv()
	v.SetDefault("default_dir", DefaultDir)
	v.SetDefault("dirs", "")
	v.SetDefault("teardown", string(TeardownRollback))

	cfg := Config{
		DefaultDir: v.GetString("default_dir"),
		Teardown:   TeardownStrategy(v.GetString("teardown")),
	}
	if raw := v.GetString("dirs"); raw != "" {
		cfg.Dirs = filepath.SplitList(raw)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
