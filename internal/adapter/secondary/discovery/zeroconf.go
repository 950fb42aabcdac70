package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/grandcat/zeroconf"

	"volpanel/internal/logging"
)

const (
	// Service is the DNS-SD service type backends register under.
	Service = "_volpanel._tcp"
	Domain  = "local."
)

// ErrNotFound is returned when no backend answered before the deadline.
var ErrNotFound = errors.New("no volpanel backend found")

// Backend is one discovered bridge endpoint.
type Backend struct {
	Name string
	URL  string
}

// Advertiser keeps a backend registered until Shutdown.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers instance on port with mDNS.
func Advertise(instance string, port int, dialects []string) (*Advertiser, error) {
	txt := []string{"path=/invoke", "dialects=" + strings.Join(dialects, ",")}
	server, err := zeroconf.Register(instance, Service, Domain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", Service, err)
	}
	logging.Infof("advertising %q as %s on port %d", instance, Service, port)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the registration.
func (a *Advertiser) Shutdown() {
	a.server.Shutdown()
}

// Browse calls fn for every backend seen until ctx is done.
func Browse(ctx context.Context, fn func(Backend)) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("initialize resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				backend, ok := backendFromEntry(entry)
				if !ok || seen[backend.Name] {
					continue
				}
				seen[backend.Name] = true
				logging.Debugf("discovered backend %s at %s", backend.Name, backend.URL)
				fn(backend)
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, Service, Domain, entries); err != nil {
		return fmt.Errorf("browse %s: %w", Service, err)
	}
	<-ctx.Done()
	<-done
	return nil
}

// First returns the first backend found before ctx is done.
func First(ctx context.Context) (Backend, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan Backend, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Browse(ctx, func(b Backend) {
			select {
			case found <- b:
				cancel()
			default:
			}
		})
	}()

	select {
	case b := <-found:
		return b, nil
	case err := <-errCh:
		select {
		case b := <-found:
			return b, nil
		default:
		}
		if err != nil {
			return Backend{}, err
		}
		return Backend{}, ErrNotFound
	}
}

func backendFromEntry(entry *zeroconf.ServiceEntry) (Backend, bool) {
	if entry == nil || entry.Port <= 0 {
		return Backend{}, false
	}
	var host string
	switch {
	case len(entry.AddrIPv4) > 0:
		host = entry.AddrIPv4[0].String()
	case len(entry.AddrIPv6) > 0:
		host = entry.AddrIPv6[0].String()
	case entry.HostName != "":
		host = strings.TrimSuffix(entry.HostName, ".")
	default:
		return Backend{}, false
	}
	return Backend{
		Name: entry.Instance,
		URL:  "http://" + net.JoinHostPort(host, strconv.Itoa(entry.Port)),
	}, true
}
