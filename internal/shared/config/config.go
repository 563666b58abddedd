package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultPageSize = 10
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "warn"
	EnvPrefix       = "HSADMIN"
	dirName         = ".homeservices-admin"
)

// Settings is the resolved configuration
type Settings struct {
	URL      string
	Token    string
	PageSize int
	Timeout  time.Duration
	Journal  string
	LogLevel string
}

// Config binds flags, environment and the config file together.
// Flags override the environment, which overrides the file.
type Config struct {
	v       *viper.Viper
	cfgFile string
	used    string
}

// New creates an empty Config
func New() *Config {
	v := viper.New()
	v.SetDefault("pageSize", DefaultPageSize)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("logLevel", DefaultLogLevel)
	return &Config{v: v}
}

// AddFlags adds the shared configuration flags to cmd
func (c *Config) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ~/"+dirName+"/config.yaml)")
	flags.String("url", "", "backend API base URL")
	flags.String("token", "", "backend API bearer token")
	flags.Int("page-size", DefaultPageSize, "rows per page in list views")
	flags.Duration("timeout", DefaultTimeout, "HTTP request timeout")
	flags.String("journal", "", "path of the local mutation journal (default is ~/"+dirName+"/journal.db)")
	flags.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")

	c.v.BindPFlag("url", flags.Lookup("url"))
	c.v.BindPFlag("token", flags.Lookup("token"))
	c.v.BindPFlag("pageSize", flags.Lookup("page-size"))
	c.v.BindPFlag("timeout", flags.Lookup("timeout"))
	c.v.BindPFlag("journal", flags.Lookup("journal"))
	c.v.BindPFlag("logLevel", flags.Lookup("log-level"))
}

// Load reads the config file, if any, and the environment
func (c *Config) Load() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.v.AddConfigPath(dir)
		c.v.SetConfigType("yaml")
		c.v.SetConfigName("config")
	}

	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	// camelCase keys do not map onto env names by themselves
	c.v.BindEnv("pageSize", EnvPrefix+"_PAGE_SIZE")
	c.v.BindEnv("logLevel", EnvPrefix+"_LOG_LEVEL")

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if c.cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	c.used = c.v.ConfigFileUsed()
	return nil
}

// FileUsed returns the config file that was read, if any
func (c *Config) FileUsed() string {
	return c.used
}

// Settings returns the resolved settings
func (c *Config) Settings() Settings {
	s := Settings{
		URL:      strings.TrimSpace(c.v.GetString("url")),
		Token:    strings.TrimSpace(c.v.GetString("token")),
		PageSize: c.v.GetInt("pageSize"),
		Timeout:  c.v.GetDuration("timeout"),
		Journal:  c.v.GetString("journal"),
		LogLevel: c.v.GetString("logLevel"),
	}
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.Journal == "" {
		if dir, err := Dir(); err == nil {
			s.Journal = filepath.Join(dir, "journal.db")
		}
	}
	return s
}

// Validate checks that the backend can be reached with these settings
func (s Settings) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("backend URL is required (set %s_URL env var, --url flag, or url in config file)", EnvPrefix)
	}
	if s.Token == "" {
		return fmt.Errorf("API token is required (set %s_TOKEN env var, --token flag, or token in config file)", EnvPrefix)
	}
	return nil
}

// Level parses LogLevel, defaulting to warn
func (s Settings) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Dir returns the directory holding the config file and the journal
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// ConfigureRequest represents configuration input
type ConfigureRequest struct {
	URL      string
	Token    string
	PageSize int
}

// Asker reads answers for the interactive configuration
type Asker interface {
	Line(label, current string) (string, error)
	Secret(label string, hasCurrent bool) (string, error)
}

// ConfigureInteractive asks for the backend URL and token, keeping the
// current values on empty answers
func ConfigureInteractive(ask Asker, current Settings) (*ConfigureRequest, error) {
	url, err := ask.Line("Backend URL", current.URL)
	if err != nil {
		return nil, err
	}

	token, err := ask.Secret("API token", current.Token != "")
	if err != nil {
		return nil, err
	}
	if token == "" {
		token = current.Token
	}

	pageSize := current.PageSize
	raw, err := ask.Line("Page size", fmt.Sprint(current.PageSize))
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Sscan(raw, &pageSize); err != nil || pageSize <= 0 {
		return nil, fmt.Errorf("page size must be a positive number, got %q", raw)
	}

	if url == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	return &ConfigureRequest{URL: url, Token: token, PageSize: pageSize}, nil
}

// Save writes req to path, or to the default config file when path is empty,
// and returns the file written
func (c *Config) Save(req ConfigureRequest, path string) (string, error) {
	if path == "" {
		if c.cfgFile != "" {
			path = c.cfgFile
		} else {
			dir, err := Dir()
			if err != nil {
				return "", err
			}
			path = filepath.Join(dir, "config.yaml")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	out := viper.New()
	out.Set("url", req.URL)
	out.Set("token", req.Token)
	out.Set("pageSize", req.PageSize)

	if err := out.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("failed to restrict config file: %w", err)
	}

	return path, nil
}

// MaskToken shows only the ends of a token
func MaskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + token[len(token)-4:]
}
