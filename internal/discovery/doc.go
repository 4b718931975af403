// Package discovery advertises and locates PakRecharge servers on the local
// network over multicast DNS.
//
// A running server registers itself as an "_http._tcp" service whose TXT
// records carry the page path, the offline worker path and the application
// tag:
//
//	path=/
//	sw=/sw.js
//	app=pakrecharge
//	version=1.2.0
//
// Advertisement is fire-and-forget. A failure to register is logged by the
// caller and never stops the server.
//
// # Usage Example
//
//	ad, err := discovery.Advertise("PakRecharge", 8080, "1.2.0")
//	if err == nil {
//	    defer ad.Shutdown()
//	}
//
//	instances, err := discovery.QuickScan()
//	for _, inst := range instances {
//	    fmt.Println(inst.BaseURL())
//	}
//
// # Network Requirements
//
// Multicast must be allowed on the interface and UDP port 5353 must be open.
package discovery
