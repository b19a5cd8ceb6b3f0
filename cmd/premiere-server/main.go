// Premiere-server serves a script library over HTTP.
//
// It loads a YAML catalog (or the built-in one), serves it as JSON,
// pushes reloads to connected browsers over a WebSocket feed and announces
// itself on the local network over mDNS.
//
// Usage:
//
//	premiere-server server [flags]
//
// See 'premiere-server server --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/premiere/internal/discovery"
	"github.com/muurk/premiere/internal/server"
	"github.com/muurk/premiere/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "premiere-server",
	Short: "Premiere script library server",
	Long: `A script library server for the Premiere browser.

The server loads a catalog of screenplays from a YAML file, serves it over
a small JSON API, and pushes every change of the file to connected browsers.
Libraries announce themselves over mDNS so 'premiere --discover' can find them.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}

// Server command and flags
var (
	host        string
	port        int
	catalogPath string
	imageDir    string
	certPath    string
	keyPath     string
	name        string
	noAdvertise bool
	logLevel    string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the library server",
	Long: `Start serving a script library.

Without --catalog the built-in sample catalog is served. With --catalog the
file is watched and every saved change is pushed to connected browsers; a
file that fails to parse is logged and the previous catalog stays live.

TLS is enabled when both --cert and --key are given.`,
	Example: `  # Serve the built-in catalog on port 8080
  premiere-server server

  # Serve your own catalog with debug logging
  premiere-server server --catalog scripts.yaml --log-level debug

  # Serve poster images and use TLS
  premiere-server server --catalog scripts.yaml --images ./posters \
    --cert fullchain.pem --key privkey.pem --port 8443

  # Do not announce on the local network
  premiere-server server --no-advertise`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serverCmd.Flags().IntVar(&port, "port", discovery.DefaultPort, "Listen port")
	serverCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML catalog file (default: built-in catalog)")
	serverCmd.Flags().StringVar(&imageDir, "images", "", "Directory served under /images/ (disabled if not specified)")
	serverCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serverCmd.Flags().StringVar(&name, "name", "", "Library name announced over mDNS (default: hostname)")
	serverCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not announce the library over mDNS")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	if catalogPath != "" {
		if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
			return fmt.Errorf("catalog file not found: %s", catalogPath)
		}
	}

	config := &server.Config{
		Host:        host,
		Port:        port,
		CatalogPath: catalogPath,
		ImageDir:    imageDir,
		CertPath:    certPath,
		KeyPath:     keyPath,
		LogLevel:    logLevel,
		Advertise:   !noAdvertise,
		Name:        name,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	srv, err := server.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Line("premiere-server"))
	},
}
