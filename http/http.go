// Package http implements [pusula.Recommender] against a recommendation
// server speaking the /api/recommend protocol.
//
// The request is POSTed as a JSON document and the response body is
// streamed back as raw text. The body carries no framing: chunk
// boundaries are whatever the transport delivers, including splits inside
// multi-byte characters.
package http

const (
	recommendPath  = "/api/recommend"
	defaultBaseURL = "http://localhost:5000"
	readBufferSize = 32 * 1024
)
