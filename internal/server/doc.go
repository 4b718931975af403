// Package server exposes the top-up form over HTTP.
//
// Routes:
//
//	GET  /             landing page that registers the offline worker
//	GET  /health       liveness probe, answers "OK"
//	GET  /sw.js        offline worker script
//	GET  /metrics      Prometheus metrics
//	GET  /api/catalog  networks, amount tiles, payment methods and bundles
//	POST /api/validate validate a form state (200 or 422)
//	POST /api/topup    validate and charge (200 receipt, 422 or 402)
//	GET  /ws           websocket form session
//
// # Websocket Sessions
//
// Each connection gets its own form.App backed by a MemoryView, an
// EventLoop and a Timer scheduler. The client sends events as JSON:
//
//	{"name": "amount_tile_clicked", "target": "tile-100"}
//	{"name": "phone_input", "value": "03001234567"}
//	{"name": "bundle_chosen", "target": "Weekly Super", "price": "Rs. 200"}
//	{"name": "submit"}
//
// The server answers every event, payment result and timer with a full
// form.Snapshot. A rejected event is reported as {"error": "..."} and the
// session stays open.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Listen:    ":8080",
//	    Advertise: true,
//	    Catalog:   settings.Catalog,
//	    Timing:    settings.Timing,
//	    Gateway:   settings.Gateway(),
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start() // blocks until SIGINT/SIGTERM
package server
