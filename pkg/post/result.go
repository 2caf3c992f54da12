package post

import (
	"encoding/json"
	"io"
)

// Result is the envelope printed on standard output for every invocation
type Result struct {
	Success bool   `json:"success"`
	Post    *Post  `json:"post,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success wraps a fetched post into a successful result
func Success(p *Post) Result {
	return Result{Success: true, Post: p}
}

// Failure wraps an error message into a failed result
func Failure(message string) Result {
	return Result{Success: false, Error: message}
}

// WriteJSON writes the result as a single JSON line. HTML escaping is
// disabled so media URLs and non-ASCII text pass through unaltered.
func (r Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
