package loopback

import (
	"io"
	"strconv"
	"time"
)

// SegmentGap is the pause between the parts of a Split reply, long enough
// for the parts to usually leave as separate TCP segments.
const SegmentGap = 5 * time.Millisecond

// Reply is what the server sends back on one connection.
type Reply struct {
	parts [][]byte
	drop  bool
}

// Responder picks the reply for the n-th accepted connection (0-based).
type Responder func(n int) Reply

// Always answers every connection with r.
func Always(r Reply) Responder {
	return func(int) Reply { return r }
}

// Status builds a complete HTTP/1.1 response with a JSON body.
func Status(code int, text, body string) Reply {
	head := "HTTP/1.1 " + strconv.Itoa(code) + " " + text + "\r\n" +
		"Content-Type: application/json\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n" +
		"Connection: close\r\n\r\n"
	return Raw([]byte(head + body))
}

// OK mimics an httpbin /get answer.
func OK() Reply {
	return Status(200, "OK", `{"args": {}, "url": "http://httpbin.org/get"}`)
}

// NotFound is a 404 answer.
func NotFound() Reply {
	return Status(404, "Not Found", `{"error": "not found"}`)
}

// Raw sends b verbatim.
func Raw(b []byte) Reply {
	return Reply{parts: [][]byte{b}}
}

// Split sends each part in its own write, SegmentGap apart.
func Split(parts ...string) Reply {
	r := Reply{parts: make([][]byte, 0, len(parts))}
	for _, p := range parts {
		r.parts = append(r.parts, []byte(p))
	}
	return r
}

// Drop closes the connection without writing anything.
func Drop() Reply {
	return Reply{drop: true}
}

func (r Reply) writeTo(w io.Writer) error {
	if r.drop {
		return nil
	}
	for i, p := range r.parts {
		if i > 0 {
			time.Sleep(SegmentGap)
		}
		if _, err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

func (r Reply) kind() string {
	switch {
	case r.drop:
		return "drop"
	case len(r.parts) > 1:
		return "split/" + strconv.Itoa(len(r.parts))
	default:
		return "raw"
	}
}
