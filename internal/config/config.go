package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultSource is the dataset summarized when no source is given.
const DefaultSource = "https://archive.ics.uci.edu/ml/machine-learning-databases/iris/iris.data"

// DefaultNames are the header names of DefaultSource, which ships without one.
var DefaultNames = []string{"sepal_length", "sepal_width", "petal_length", "petal_width", "species"}

// Global configuration structure.
type Global struct {
	DefaultSource string   `mapstructure:"default_source" yaml:"default_source"`
	DefaultNames  []string `mapstructure:"default_names" yaml:"default_names"`
	OutputDir     string   `mapstructure:"output_dir" yaml:"output_dir"`
	Formats       []string `mapstructure:"formats" yaml:"formats"`
	MaxRows       int      `mapstructure:"max_rows" yaml:"max_rows"`

	// Rendering
	FloatPrecision int    `mapstructure:"float_precision" yaml:"float_precision"`
	NaRep          string `mapstructure:"na_rep" yaml:"na_rep"`
	HTMLFullPage   bool   `mapstructure:"html_full_page" yaml:"html_full_page"`
	HTMLCSS        string `mapstructure:"html_css" yaml:"html_css"`
	SheetName      string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Runtime
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	BatchJobs      int    `mapstructure:"batch_jobs" yaml:"batch_jobs"`
}

// Dir returns ~/.summarizer.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".summarizer"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.summarizer/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including a .env in the working directory) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// A missing .env is fine; existing environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SUMMARIZER")
	v.AutomaticEnv()

	v.SetDefault("default_source", DefaultSource)
	v.SetDefault("default_names", DefaultNames)
	v.SetDefault("output_dir", "")
	v.SetDefault("formats", []string{"markdown", "html", "spreadsheet"})
	v.SetDefault("max_rows", 0)
	v.SetDefault("float_precision", 6)
	v.SetDefault("na_rep", "NaN")
	v.SetDefault("html_full_page", false)
	v.SetDefault("html_css", "")
	v.SetDefault("sheet_name", "Sheet1")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("log_level", "warn")
	v.SetDefault("batch_jobs", 4)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.BatchJobs < 1 {
		c.BatchJobs = 1
	}
	return &c, nil
}
