// Premiere is a terminal browser for screenplay libraries.
//
// Running without arguments opens the interactive browser: a decorative
// sign-in screen, then a carousel of script cards. Pick a card to read the
// script. Libraries can be the built-in sample catalog, a local YAML file or
// a premiere-server found on the network.
//
// Usage:
//
//	premiere [command] [flags]
//
// See 'premiere --help' for available commands.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/browser/tui"
	"github.com/muurk/premiere/internal/config"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Root flags
var (
	catalogPath string
	libraryURL  string
	configPath  string
	discover    bool
	skipLogin   bool
	logLevel    string
	logFile     string
)

var rootCmd = &cobra.Command{
	Use:   "premiere",
	Short: "Browse screenplay libraries in the terminal",
	Long: `Premiere is a terminal browser for screenplay libraries.

With no command the interactive browser opens. Scripts come from, in order
of preference: --library (a premiere-server URL), --catalog (a local YAML
file), the values saved in the config file, or the built-in sample catalog.

Local catalog files and library servers are followed live: edits show up
in the browser without restarting it.`,
	Example: `  # Browse the built-in catalog
  premiere

  # Browse a local catalog without the sign-in screen
  premiere --catalog scripts.yaml --skip-login

  # Find a library on the local network
  premiere --discover

  # Connect to a known library and log to a file
  premiere --library http://192.168.1.20:8080 --log-level debug --log-file premiere.log`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowser,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The browser owns the terminal, so its logs only go to a file.
		if cmd == cmd.Root() && logFile == "" {
			return logging.InitializeFile("", os.DevNull)
		}
		return logging.InitializeFile(logLevel, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&catalogPath, "catalog", "", "Path to a YAML catalog file")
	flags.StringVar(&libraryURL, "library", "", "Base URL of a premiere-server library")
	flags.StringVar(&configPath, "config", "", "Path to the config file (default: user config directory)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); also PREMIERE_LOG_LEVEL")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file")

	rootCmd.Flags().BoolVar(&discover, "discover", false, "Search the local network for a library before browsing")
	rootCmd.Flags().BoolVar(&skipLogin, "skip-login", false, "Go straight to the library")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := tui.Options{
		CardWidth:       cfg.Layout.CardWidth,
		Gap:             cfg.Layout.Gap,
		SkipLogin:       skipLogin,
		DefaultUsername: cfg.DefaultUsername,
		OnLogin: func(username, password string) {
			logging.LogLogin(username, password != "")
		},
		Discover:        discover,
		DiscoverTimeout: cfg.DiscoverDuration(),
		Context:         ctx,
	}

	if !discover {
		src, err := openSource(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer src.Close()
		opts.Catalog, opts.Source, opts.Updates = src.Catalog, src.Label, src.Updates
	}

	final, err := tea.NewProgram(tui.NewAppModel(opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	if app, ok := final.(tui.AppModel); ok && app.LibraryURL != "" {
		rememberLibrary(cfg, app.LibraryName, app.LibraryURL)
	}
	return nil
}

// loadConfig reads --config or the default config file.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func saveConfig(cfg *config.Config) error {
	if configPath != "" {
		return cfg.SaveTo(configPath)
	}
	return cfg.Save()
}

func rememberLibrary(cfg *config.Config, name, url string) {
	cfg.RememberLibrary(name, url)
	if err := saveConfig(cfg); err != nil {
		logging.Warn("Failed to remember library", zap.String("url", url), zap.Error(err))
	}
}
