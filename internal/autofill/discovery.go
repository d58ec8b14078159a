package autofill

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/otpview/internal/logging"
)

const (
	// ServiceType is the mDNS service type autofill listeners announce
	ServiceType = "_otpview._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultBrowseTimeout is how long Browse waits for answers
	DefaultBrowseTimeout = 5 * time.Second
)

// Endpoint is an autofill listener found on the local network
type Endpoint struct {
	// Instance is the announced service instance name
	Instance string

	// Host is the mDNS hostname (e.g., "laptop.local.")
	Host string

	// IP is the first usable address, IPv4 preferred
	IP string

	// Port is the listener's TCP port
	Port int

	// Text holds the TXT record pairs (cells, length, keyboard)
	Text map[string]string
}

// URL returns the websocket URL for pushing to the endpoint
func (e Endpoint) URL() string {
	path := e.Text["path"]
	if path == "" {
		path = Path
	}
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(e.IP, strconv.Itoa(e.Port)), path)
}

// String returns a human-readable description of the endpoint
func (e Endpoint) String() string {
	return fmt.Sprintf("%s (%s) at %s", e.Instance, e.Host, net.JoinHostPort(e.IP, strconv.Itoa(e.Port)))
}

// Advertise announces a listener on port until ctx is done. text entries are
// "key=value" TXT records.
func Advertise(ctx context.Context, instance string, port int, text ...string) error {
	text = append([]string{"path=" + Path}, text...)
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, text, nil)
	if err != nil {
		return &Error{Type: ErrTypeDiscovery, Message: "failed to register mDNS service", Err: err}
	}

	logging.Info("Advertising autofill listener",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	go func() {
		<-ctx.Done()
		server.Shutdown()
		logging.Debug("mDNS announcement withdrawn", zap.String("instance", instance))
	}()
	return nil
}

// Browse collects the listeners that answer within timeout. Endpoints are
// deduplicated by instance name and sorted.
func Browse(ctx context.Context, timeout time.Duration) ([]Endpoint, error) {
	if timeout <= 0 {
		timeout = DefaultBrowseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, &Error{Type: ErrTypeDiscovery, Message: "failed to create mDNS resolver", Err: err}
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		found = make(map[string]Endpoint)
		done  = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			ep, ok := parseServiceEntry(entry)
			if !ok {
				continue
			}
			mu.Lock()
			found[ep.Instance] = ep
			mu.Unlock()
			logging.Debug("Discovered autofill listener", zap.String("endpoint", ep.String()))
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, &Error{Type: ErrTypeDiscovery, Message: "failed to browse for mDNS services", Err: err}
	}

	<-ctx.Done()
	// The resolver closes entries once the context ends.
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	endpoints := make([]Endpoint, 0, len(found))
	for _, ep := range found {
		endpoints = append(endpoints, ep)
	}
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Instance < endpoints[j].Instance
	})
	return endpoints, nil
}

// parseServiceEntry converts a zeroconf entry to an Endpoint. Entries
// without an address or port are skipped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) (Endpoint, bool) {
	if entry == nil || entry.Port == 0 {
		return Endpoint{}, false
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return Endpoint{}, false
	}

	text := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		k, v, _ := strings.Cut(txt, "=")
		text[k] = v
	}

	instance := entry.Instance
	if instance == "" {
		instance = entry.HostName
	}

	return Endpoint{
		Instance: instance,
		Host:     entry.HostName,
		IP:       ip,
		Port:     entry.Port,
		Text:     text,
	}, true
}
