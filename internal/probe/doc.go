// Package probe contains the probe loop of the HTTP benchmark.
//
// # Overview
//
// The loop measures how often a plain HTTP/1.1 exchange against a fixed
// endpoint comes back with a "200 OK" status line. It deliberately talks to
// the socket directly and skips TLS and any HTTP client library, so the
// result is a rough baseline rather than a faithful client measurement.
//
// # Attempt
//
// Attempt performs one exchange:
//  1. TCP connect to Config.Target.
//  2. Write the request built by Request (GET, Host, Connection: close).
//  3. Read until the peer closes, into one buffer. Invalid UTF-8 fails the read.
//  4. Check the buffer for SuccessMarker.
//
// The connection is closed before Attempt returns, whatever the outcome.
//
// # Run
//
// Run performs Config.Attempts attempts (100 by default) sequentially and
// tallies them in a core.State. Every failure (refused or timed out connect,
// failed write, read error, non-UTF-8 bytes, missing marker) is treated the
// same: the attempt does not count. Nothing is retried and no failure stops
// the loop.
//
// # Inputs & Configuration
//
//   - Config.Target:   "host:port" to dial (default httpbin.org:80).
//   - Config.Host:     Host header (default httpbin.org).
//   - Config.Path:     request path (default /get).
//   - Config.Attempts: number of attempts (default 100).
//   - Config.Timeout:  per-attempt bound; zero means none.
//   - Config.Logger:   receives failed-attempt lines; nil discards.
package probe
