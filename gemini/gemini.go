// Package gemini implements [pusula.Recommender] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. The request is rendered into a
// single Turkish prompt that asks for a JSON-only answer, and the SDK's
// iter.Seq2 stream is wrapped into the pull-based [pusula.ChunkStream]
// interface. SDK failures are not returned as Go errors: they are written
// into the stream as a final error object, the way the producer reports
// failures to the client.
package gemini

const defaultModel = "gemma-3-27b-it"

// Error codes written into the stream when the SDK call fails.
const (
	CodeQuota   = "API quota aşıldı"
	CodeAuth    = "API key hatası"
	CodeGeneric = "API hatası"
)

const rateLimitsURL = "https://ai.google.dev/gemini-api/docs/rate-limits"
