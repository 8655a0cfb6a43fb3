// Command bench counts successful plaintext HTTP/1.1 exchanges.
//
// Usage:
//
//	bench
//
// # Behavior
//
// Performs 100 sequential attempts against httpbin.org:80, each one a fresh
// TCP connection carrying "GET /get" with Connection: close, and prints the
// number of responses containing "200 OK" as a single decimal line on
// stdout. Failed attempts are skipped silently. There are no flags and no
// environment variables; TLS and real HTTP parsing are left out on purpose,
// so the figure is a rough baseline only.
package main
