package request

import "net/http"

// ClientWriter is a http.ResponseWriter that records the status code written to the client.
type ClientWriter struct {
	http.ResponseWriter
	statusCode int
}

// NewClientWriter wraps w.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code and writes it.
func (c *ClientWriter) WriteHeader(code int) {
	c.statusCode = code
	c.ResponseWriter.WriteHeader(code)
}

// StatusCode returns the status code written to the client, 200 if none was written.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
