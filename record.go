package pusula

import "time"

// Record is a finished recommendation run kept for later review.
type Record struct {
	ID        string
	CreatedAt time.Time
	Source    string // where the answer came from, e.g. a server URL or model ID
	Request   Request
	Outcome   Outcome // final outcome as returned by Run
}
