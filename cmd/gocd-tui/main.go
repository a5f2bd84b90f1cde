package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/altinukshini/gocd-tui/internal/api"
	"github.com/altinukshini/gocd-tui/internal/cache"
	"github.com/altinukshini/gocd-tui/internal/config"
	"github.com/altinukshini/gocd-tui/internal/search"
	"github.com/altinukshini/gocd-tui/internal/tui"
)

var version = "dev"

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gocd-tui",
	Short:         "Trigger GoCD pipelines with options from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "gocd-tui", version)
	},
}

func init() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./gocd-tui.yaml)")
	flags.String("server", "", "GoCD server URL, e.g. https://gocd.example.com")
	flags.StringP("pipeline", "p", "", "pipeline name (required)")
	flags.String("token", "", "GoCD access token")
	flags.String("username", "", "username for basic auth")
	flags.String("password", "", "password for basic auth")
	flags.String("fixture", "", "serve trigger options and commits from a JSON file instead of a server")
	flags.String("cache-dir", filepath.Join(os.TempDir(), "gocd-tui", "search"), "material search cache directory")
	flags.Int("cache-size", 50, "max search cache size in MB")
	flags.Duration("cache-ttl", 10*time.Minute, "search cache TTL (0 disables the cache)")

	for key, flag := range map[string]string{
		"server":        "server",
		"pipeline":      "pipeline",
		"token":         "token",
		"username":      "username",
		"password":      "password",
		"fixture":       "fixture",
		"cache.dir":     "cache-dir",
		"cache.size_mb": "cache-size",
		"cache.ttl":     "cache-ttl",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("gocd-tui")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GOCD_TUI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Load(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type session struct {
	backend  tui.Backend
	searcher search.Searcher
	// cache is nil in offline mode or when the TTL is zero.
	cache *cache.SearchCache
}

// newSession connects to the server, or loads the fixture in offline mode.
// Server searches go through the on-disk cache unless its TTL is zero.
// Setup warnings go to the process logger; searchLog is used by the caching
// searcher once the session is running.
func newSession(cfg config.Config, searchLog *slog.Logger) (session, error) {
	if cfg.Offline() {
		fb, err := api.LoadFixture(cfg.Fixture)
		if err != nil {
			return session{}, err
		}
		return session{backend: fb, searcher: fb}, nil
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return session{}, err
	}
	s := session{backend: client, searcher: client}
	if cfg.CacheTTL <= 0 {
		return s, nil
	}

	sc, err := openCache(cfg)
	if err != nil {
		logger.Warn("search cache disabled", "error", err)
		return s, nil
	}
	if err := sc.Evict(); err != nil {
		logger.Warn("search cache eviction failed", "error", err)
	}
	s.searcher = cache.NewCachingSearcher(client, sc, searchLog)
	s.cache = sc
	return s, nil
}

func openCache(cfg config.Config) (*cache.SearchCache, error) {
	return cache.NewSearchCache(cfg.CacheDir, cfg.CacheSizeMB, cfg.CacheTTL)
}
