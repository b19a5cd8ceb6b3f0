package discovery

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/logging"
)

// Advertiser announces a running library server over mDNS.
type Advertiser struct {
	Instance string
	Port     int
	Version  string
	APIPath  string

	mu      sync.Mutex
	server  *zeroconf.Server
	scripts int
}

// NewAdvertiser creates an advertiser for the given instance name and port.
func NewAdvertiser(instance string, port int, version string) *Advertiser {
	return &Advertiser{
		Instance: instance,
		Port:     port,
		Version:  version,
		APIPath:  "/api",
	}
}

// TXT returns the TXT records currently advertised.
func (a *Advertiser) TXT() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.txtLocked()
}

func (a *Advertiser) txtLocked() []string {
	return []string{
		TXTPath + "=" + a.APIPath,
		TXTVersion + "=" + a.Version,
		TXTScripts + "=" + strconv.Itoa(a.scripts),
	}
}

// SetScriptCount updates the advertised script count. It takes effect
// immediately when the advertiser is running.
func (a *Advertiser) SetScriptCount(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scripts = n
	if a.server != nil {
		a.server.SetText(a.txtLocked())
	}
}

// Run registers the service and keeps it registered until ctx is cancelled.
func (a *Advertiser) Run(ctx context.Context) error {
	a.mu.Lock()
	server, err := zeroconf.Register(a.Instance, ServiceType, ServiceDomain, a.Port, a.txtLocked(), nil)
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server
	a.mu.Unlock()

	logging.Info("Advertising library over mDNS",
		zap.String("instance", a.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", a.Port))

	<-ctx.Done()

	a.mu.Lock()
	a.server.Shutdown()
	a.server = nil
	a.mu.Unlock()

	logging.Debug("mDNS advertisement withdrawn", zap.String("instance", a.Instance))
	return nil
}
