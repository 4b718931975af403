package discovery

import (
	"fmt"
	"time"
)

// Instance is a PakRecharge server found on the network
type Instance struct {
	// Name is the advertised service instance name
	Name string

	// Hostname is the mDNS hostname (e.g., "kiosk-1.local.")
	Hostname string

	// IP is the first IPv4 address, or IPv6 when none is advertised
	IP string

	Port int

	// Metadata holds the TXT records as key/value pairs
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s", i.Name, i.Hostname, i.BaseURL())
}

// BaseURL returns the HTTP base URL of the instance
func (i *Instance) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", i.IP, i.Port)
}

// PageURL returns the URL of the form page
func (i *Instance) PageURL() string {
	return i.BaseURL() + i.pathOr(TxtPath, "/")
}

// WorkerURL returns the URL of the offline worker script
func (i *Instance) WorkerURL() string {
	return i.BaseURL() + i.pathOr(TxtWorker, WorkerPath)
}

// Version returns the advertised application version
func (i *Instance) Version() string {
	return i.GetMetadata(TxtVersion)
}

// GetMetadata retrieves a TXT value by key, or "" when absent
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}

func (i *Instance) pathOr(key, fallback string) string {
	if v := i.GetMetadata(key); v != "" {
		return v
	}
	return fallback
}
