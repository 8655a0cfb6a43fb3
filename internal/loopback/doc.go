// Package loopback provides a scriptable local HTTP/1.1 peer.
//
// It stands in for the remote host the probe loop talks to, so the loop can
// be exercised without leaving the machine.
//
// # Server
//
// NewServer fills option defaults. Start() binds a listener (a free loopback
// port unless Addr is set) and runs the accept loop in a goroutine; Stop()
// closes the listener and waits for in-flight connections.
//
// Each connection gets exactly one Reply: the server reads the request head,
// asks the Responder for the reply of that connection index, writes it and
// closes, as Connection: close requires.
//
// # Replies
//
//   - Status/OK/NotFound: a complete response with a JSON body
//   - Raw: arbitrary bytes, e.g. invalid UTF-8
//   - Split: several writes, to spread one response over segments
//   - Drop: close without writing
package loopback
