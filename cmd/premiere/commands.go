package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/client"
	"github.com/muurk/premiere/internal/config"
	"github.com/muurk/premiere/internal/discovery"
	"github.com/muurk/premiere/internal/ui"
	"github.com/muurk/premiere/internal/urls"
	"github.com/muurk/premiere/internal/version"
)

// listCmd prints the catalog as a table
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scripts in a library",
	Long: `Print one line per script: id, title, genre, length, author and logline.

The catalog is chosen the same way as for the browser.`,
	Example: `  premiere list
  premiere list --catalog scripts.yaml
  premiere list --library http://192.168.1.20:8080`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := openSource(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Script Library", "premiere list",
		ui.F("Source", src.Label),
		ui.F("Scripts", strconv.Itoa(src.Catalog.Len())),
	)
	p.Newline()
	p.PrintCatalog(src.Catalog)
	return nil
}

// showCmd prints one script
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a script",
	Long:  `Print a script's details and full text.`,
	Example: `  premiere show 3
  premiere show 3 --library http://192.168.1.20:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	id := args[0]
	p := ui.NewPrinter(cmd.OutOrStdout())

	url, _ := resolveLocation(cfg, libraryURL, catalogPath)
	if url != "" {
		r, err := client.New(url).FetchScript(cmd.Context(), id)
		if client.IsNotFound(err) {
			return fmt.Errorf("no script with id %q", id)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch script: %s", client.ShortMessage(err))
		}
		p.PrintScript(r)
		return nil
	}

	src, err := openSource(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	r, ok := src.Catalog.Get(id)
	if !ok {
		return fmt.Errorf("no script with id %q (have %v)", id, src.Catalog.IDs())
	}
	p.PrintScript(r)
	return nil
}

// scanCmd discovers libraries on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for script libraries on the network",
	Long: `Scan for premiere-server libraries using mDNS/DNS-SD discovery.

With --save the libraries found are remembered in the config file.`,
	Example: `  # Scan using the configured timeout (5 seconds by default)
  premiere scan

  # Longer scan, remembering what was found
  premiere scan --timeout 15 --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var (
	scanTimeout int
	scanSave    bool
)

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default: config discover_timeout)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Remember the libraries found in the config file")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	timeout := cfg.DiscoverDuration()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Library Scan", "premiere scan",
		ui.F("Service", discovery.ServiceType),
		ui.F("Timeout", timeout.String()),
	)

	libs, err := discovery.ScanForLibraries(cmd.Context(), timeout)
	if err != nil {
		p.PrintError("Scan failed", err,
			"Multicast DNS may be blocked on this network",
			"Use --library <url> to connect directly",
		)
		return err
	}

	if len(libs) == 0 {
		p.PrintWarning("No libraries found")
		return nil
	}

	p.Newline()
	p.PrintLibraries(libs)
	p.Newline()

	if scanSave {
		for _, lib := range libs {
			cfg.RememberLibrary(lib.Name, lib.BaseURL())
		}
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		p.PrintSuccess(fmt.Sprintf("Remembered %d libraries", len(libs)))
	}
	return nil
}

// configCmd manages the config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		p := ui.NewPrinter(cmd.OutOrStdout())
		if err := config.CreateDefaultFile(path); err != nil {
			p.PrintError("Config not written", err, "Edit the existing file or remove it first")
			return err
		}
		p.PrintSuccess("Config written", ui.F("Path", path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configCatalogCmd = &cobra.Command{
	Use:   "catalog <path>",
	Short: "Write the built-in catalog to a file as a starting point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.WriteFile(path, catalog.DefaultDocument(), 0644); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Catalog written",
			ui.F("Path", path),
			ui.F("Next", "premiere --catalog "+path),
		)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCatalogCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Line("premiere"))
		fmt.Fprintln(cmd.OutOrStdout(), urls.Repository)
	},
}
