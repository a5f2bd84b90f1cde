package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   string
	Pipeline string
	Token    string
	Username string
	Password string
	// Fixture, when set, replaces the server with a local JSON file.
	Fixture string

	CacheDir    string
	CacheSizeMB int
	CacheTTL    time.Duration
}

// Load reads the configuration from v. Flags, GOCD_TUI_* environment
// variables and the config file are all resolved by viper.
func Load(v *viper.Viper) Config {
	return Config{
		Server:      strings.TrimRight(v.GetString("server"), "/"),
		Pipeline:    v.GetString("pipeline"),
		Token:       v.GetString("token"),
		Username:    v.GetString("username"),
		Password:    v.GetString("password"),
		Fixture:     v.GetString("fixture"),
		CacheDir:    v.GetString("cache.dir"),
		CacheSizeMB: v.GetInt("cache.size_mb"),
		CacheTTL:    v.GetDuration("cache.ttl"),
	}
}

func (c Config) Offline() bool {
	return c.Fixture != ""
}

func (c Config) Validate() error {
	if c.Pipeline == "" {
		return fmt.Errorf("pipeline is required (use -p <pipeline>)")
	}
	if c.Offline() {
		return nil
	}
	if c.Server == "" {
		return fmt.Errorf("server is required (use --server https://gocd.example.com)")
	}
	u, err := url.Parse(c.Server)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server must be an http(s) URL, got %q", c.Server)
	}
	if c.Token == "" && c.Username == "" {
		return fmt.Errorf("credentials are required (set GOCD_TUI_TOKEN or --username/--password)")
	}
	if c.Username != "" && c.Password == "" {
		return fmt.Errorf("password is required when username is set")
	}
	return nil
}

// Hostname is the server host without port.
func (c Config) Hostname() string {
	u, err := url.Parse(c.Server)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// URL joins path onto the server base URL.
func (c Config) URL(path string) string {
	return c.Server + "/" + strings.TrimLeft(path, "/")
}

// Authorization returns the value for the Authorization header.
func (c Config) Authorization() string {
	if c.Token != "" {
		return "bearer " + c.Token
	}
	creds := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	return "Basic " + creds
}
