// Package client talks to a running PakRecharge server over its JSON API.
//
// Requests that fail on the network or with a 5xx status are retried with
// exponential backoff. The catalog is cached for a short time since it only
// changes when the server restarts.
//
// # Usage Example
//
//	c := client.New("http://192.168.1.20:8080")
//	catalog, err := c.Catalog(ctx)
//	receipt, err := c.TopUp(ctx, state)
//	if topup.IsPaymentError(err) {
//	    // declined
//	}
package client
