package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type PakRecharge servers register under
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default time spent browsing
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 80

	// WorkerPath is the fixed path of the offline worker script
	WorkerPath = "/sw.js"

	// AppTag marks PakRecharge entries among other HTTP services
	AppTag = "pakrecharge"
)

// TXT record keys
const (
	TxtPath    = "path"
	TxtWorker  = "sw"
	TxtApp     = "app"
	TxtVersion = "version"
)

// TXTRecords builds the TXT records a server advertises
func TXTRecords(version string) []string {
	records := []string{
		TxtPath + "=/",
		TxtWorker + "=" + WorkerPath,
		TxtApp + "=" + AppTag,
	}
	if version != "" {
		records = append(records, TxtVersion+"="+version)
	}
	return records
}

// Advertisement is a live mDNS registration
type Advertisement struct {
	Name string
	Port int

	server *zeroconf.Server
}

// Advertise registers the service on all multicast interfaces
func Advertise(name string, port int, version string) (*Advertisement, error) {
	if port <= 0 {
		return nil, fmt.Errorf("invalid advertise port %d", port)
	}
	server, err := zeroconf.Register(name, ServiceType, ServiceDomain, port, TXTRecords(version), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Advertisement{Name: name, Port: port, server: server}, nil
}

// Shutdown withdraws the registration
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
}

// PortFromAddr extracts the numeric port from a listen address like ":8080"
func PortFromAddr(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := net.LookupPort("tcp", portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen port %q: %w", portStr, err)
	}
	return port, nil
}

// Scanner browses for PakRecharge servers
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every PakRecharge instance that answers before the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	instances := make([]*Instance, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for entry := range entries {
			inst := parseServiceEntry(entry)
			if inst == nil || seen[inst.Name] {
				continue
			}
			seen[inst.Name] = true
			instances = append(instances, inst)
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// the resolver closes entries once the context ends
	<-done

	return instances, nil
}

// parseServiceEntry converts an entry to an Instance.
// Returns nil for services that are not PakRecharge servers.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Instance {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}
	if metadata[TxtApp] != AppTag {
		return nil
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
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Instance{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// QuickScan browses for three seconds
func QuickScan() ([]*Instance, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.Scan(context.Background())
}
