package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Library is a script library server found on the local network.
type Library struct {
	// Name is the mDNS instance name (e.g., "Studio Library")
	Name string

	// Hostname is the advertised host (e.g., "studio.local.")
	Hostname string

	// IP is the address to connect to. IPv4 when one was advertised.
	IP string

	// Port is the HTTP port of the library API
	Port int

	// Metadata holds the TXT record pairs: path, version, scripts
	Metadata map[string]string

	// DiscoveredAt is when the library answered
	DiscoveredAt time.Time
}

// String returns a human-readable description of the library.
func (l *Library) String() string {
	return fmt.Sprintf("%s (%s) at %s", l.Name, l.Hostname, net.JoinHostPort(l.IP, strconv.Itoa(l.Port)))
}

// BaseURL returns the HTTP base URL for the library.
func (l *Library) BaseURL() string {
	return "http://" + net.JoinHostPort(l.IP, strconv.Itoa(l.Port))
}

// GetMetadata returns a TXT value, or "" if absent.
func (l *Library) GetMetadata(key string) string {
	if l.Metadata == nil {
		return ""
	}
	return l.Metadata[key]
}

// ScriptCount returns the advertised number of scripts, or -1 when the
// library did not advertise one.
func (l *Library) ScriptCount() int {
	n, err := strconv.Atoi(l.GetMetadata(TXTScripts))
	if err != nil {
		return -1
	}
	return n
}
