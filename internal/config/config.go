package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyNumber          = "number"
	KeyPassword        = "password"
	KeyIdentityBaseURL = "identity.base_url"
	KeyPortalBaseURL   = "portal.base_url"
	KeyPortalLocale    = "portal.locale"
	KeyLinesPath       = "lines.path"
	KeySecretsDir      = "secrets.dir"
	KeySecretsBackend  = "secrets.backend"
	KeyOutputFormat    = "output.format"
	KeyLogLevel        = "log.level"
	KeyHTTPTimeout     = "http.timeout"

	envPrefix  = "FIDO"
	configDir  = ".config/fido"
	configFile = "config.toml"
)

type Config struct {
	Number   string
	Password string
	Identity IdentityConfig
	Portal   PortalConfig
	Lines    LinesConfig
	Secrets  SecretsConfig
	Output   OutputConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

type IdentityConfig struct {
	BaseURL string
}

type PortalConfig struct {
	BaseURL string
	Locale  string
}

type LinesConfig struct {
	Path string
}

type SecretsConfig struct {
	Dir string
	// Backend is "auto" (pass with file fallback), "pass" or "file".
	Backend string
}

type OutputConfig struct {
	Format string
}

type LogConfig struct {
	Level string
}

type HTTPConfig struct {
	// Timeout of zero keeps the transport default.
	Timeout time.Duration
}

// Defaults holds the values used when neither the config file nor the
// environment sets a key.
type Defaults struct {
	IdentityBaseURL string
	PortalBaseURL   string
	Locale          string
}

// Load reads an optional .env file from the working directory, then
// config.toml (explicit path or ~/.config/fido/config.toml), then FIDO_*
// environment variables. Later sources win.
func Load(path string, defaults Defaults) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetDefault(KeyIdentityBaseURL, defaults.IdentityBaseURL)
	v.SetDefault(KeyPortalBaseURL, defaults.PortalBaseURL)
	v.SetDefault(KeyPortalLocale, defaults.Locale)
	v.SetDefault(KeyLinesPath, filepath.Join(homeDir, configDir, "lines.toml"))
	v.SetDefault(KeySecretsDir, filepath.Join(homeDir, configDir, "secrets"))
	v.SetDefault(KeySecretsBackend, "auto")
	v.SetDefault(KeyOutputFormat, "json")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyHTTPTimeout, time.Duration(0))
	v.SetDefault(KeyNumber, "")
	v.SetDefault(KeyPassword, "")

	explicit := path != ""
	if !explicit {
		path = filepath.Join(homeDir, configDir, configFile)
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return v, nil
}

func FromViper(v *viper.Viper) Config {
	return Config{
		Number:   v.GetString(KeyNumber),
		Password: v.GetString(KeyPassword),
		Identity: IdentityConfig{BaseURL: v.GetString(KeyIdentityBaseURL)},
		Portal: PortalConfig{
			BaseURL: v.GetString(KeyPortalBaseURL),
			Locale:  v.GetString(KeyPortalLocale),
		},
		Lines:   LinesConfig{Path: v.GetString(KeyLinesPath)},
		Secrets: SecretsConfig{
			Dir:     v.GetString(KeySecretsDir),
			Backend: v.GetString(KeySecretsBackend),
		},
		Output:  OutputConfig{Format: v.GetString(KeyOutputFormat)},
		Log:     LogConfig{Level: v.GetString(KeyLogLevel)},
		HTTP:    HTTPConfig{Timeout: v.GetDuration(KeyHTTPTimeout)},
	}
}
