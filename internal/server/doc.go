// Package server implements the script library server: a JSON API over the
// current catalog, a WebSocket feed of catalog snapshots, optional static
// images, catalog hot reload and mDNS advertisement.
//
// # Routes
//
//	GET /health            {"status":"ok","version":"…","scripts":4}
//	GET /api/scripts       card summaries in catalog order
//	GET /api/scripts/{id}  one full record, or a 404 JSON error
//	GET /api/catalog       the full catalog document
//	GET /ws                catalog feed (see package protocol)
//	GET /images/…          files from Config.ImageDir, when set
//
// Every response carries an X-Request-ID header; a client-supplied ID is
// echoed back.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Port:        8080,
//	    CatalogPath: "scripts.yaml",
//	    Advertise:   true,
//	})
//	if err != nil {
//	    return err
//	}
//	// Start blocks until SIGINT or SIGTERM.
//	return srv.Start()
//
// # TLS
//
// When both CertPath and KeyPath are set the server serves HTTPS with TLS
// 1.2 or newer and ECDHE AEAD cipher suites. Setting only one is an error.
//
// # Graceful Shutdown
//
// On cancellation the server stops accepting connections, closes feed
// sessions with a going-away close frame, and waits up to ShutdownTimeout
// for in-flight requests.
package server
