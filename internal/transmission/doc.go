// Package transmission provides an RPC client for the Transmission daemon.
//
// # Overview
//
// Every call is a JSON envelope POSTed to a single endpoint, usually
// http://localhost:9091/transmission/rpc:
//
//	{"method": "torrent-get", "tag": null, "arguments": {"fields": ["id"]}}
//
// and every answer carries a result string next to its arguments:
//
//	{"arguments": {"torrents": [...]}, "result": "success", "tag": null}
//
// Arguments are only read when result is "success". Which payload type a
// response decodes into is fixed by the method that was sent; see
// DecodeResponse.
//
// # Client Usage
//
//	client, err := transmission.NewClient("http://localhost:9091/transmission/rpc")
//	if err != nil {
//		return err
//	}
//	torrents, err := client.TorrentSummaries(ctx)
//
// # Session Renewal
//
// The daemon guards the endpoint with a session token. The client starts
// with the token "unknown"; the daemon answers with 409 Conflict and a fresh
// token in the X-Transmission-Session-Id header. The client stores that token
// and resends the same request once. A second conflict for the same call is
// returned as ErrAuthRenewalExhausted. Tokens are per Client, never global.
//
// # Error Handling
//
//   - *TransportError: the daemon could not be reached (refused, timeout, cancelled)
//   - *ProtocolError: HTTP error status, malformed envelope, or non-success result
//   - ErrAuthRenewalExhausted: the renewal retry was also rejected
//   - *ConfigError: the endpoint URL is missing or invalid
//
// All of them work with errors.Is and errors.As.
//
// # Thread Safety
//
// A Client is safe for concurrent use. Renewals replace the session token
// under a write lock while header construction reads it under a read lock.
package transmission
