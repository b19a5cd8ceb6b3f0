package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type advertised by library servers
	ServiceType = "_premiere._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for library discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 8080
)

// TXT record keys.
const (
	TXTPath    = "path"
	TXTVersion = "version"
	TXTScripts = "scripts"
)

// Scanner handles mDNS library discovery.
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a scanner with default settings.
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForLibraries browses until the timeout (or ctx) expires and returns
// every library that answered, de-duplicated by instance name.
func (s *Scanner) ScanForLibraries(ctx context.Context) ([]*Library, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu        sync.Mutex
		libraries []*Library
		seen      = make(map[string]bool)
		done      = make(chan struct{})
	)

	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				lib := parseServiceEntry(entry)
				if lib == nil {
					continue
				}
				mu.Lock()
				if !seen[lib.Name] {
					seen[lib.Name] = true
					libraries = append(libraries, lib)
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	mu.Lock()
	defer mu.Unlock()
	return libraries, nil
}

// WaitForLibrary browses until a library with the given instance name
// answers or the timeout expires.
func (s *Scanner) WaitForLibrary(ctx context.Context, name string) (*Library, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Library, 1)

	go func() {
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				lib := parseServiceEntry(entry)
				if lib != nil && lib.Name == name {
					found <- lib
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case lib := <-found:
		return lib, nil
	case <-ctx.Done():
		select {
		case lib := <-found:
			return lib, nil
		default:
		}
		return nil, fmt.Errorf("library %q not found within %s", name, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Library. Entries with no
// instance name or no address are ignored.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Library {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Library{
		Name:         unescapeInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" records. A bare key maps to "".
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

// unescapeInstance removes DNS escaping from instance names ("Studio\ Library").
func unescapeInstance(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// ScanForLibraries scans with a custom timeout.
func ScanForLibraries(ctx context.Context, timeout time.Duration) ([]*Library, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForLibraries(ctx)
}
