package pusula

// Outcome is a sealed interface describing what a single decode attempt
// produced. Only GotResult and GotError are meant to reach the consumer;
// the other variants exist so callers and tests can observe why nothing
// was published.
// The unexported marker method prevents external implementations.
type Outcome interface {
	outcome()
}

// NoCandidate means the accumulated text holds no opening brace yet.
type NoCandidate struct{}

func (NoCandidate) outcome() {}

// ParseFailed means a candidate was found but is not (yet) a valid JSON
// object. This is the common case while the object is still streaming.
type ParseFailed struct{}

func (ParseFailed) outcome() {}

// GotResult carries the latest successfully decoded result object.
// Each GotResult supersedes the previous one in full.
type GotResult struct {
	Object Object
}

func (GotResult) outcome() {}

// GotError carries a terminal error object, either decoded from the
// stream or synthesized for a transport failure.
type GotError struct {
	Object Object
}

func (GotError) outcome() {}

// Halted is returned for input offered after the decode session reached a
// terminal state. It is never published.
type Halted struct{}

func (Halted) outcome() {}

// Interface compliance checks.
var (
	_ Outcome = NoCandidate{}
	_ Outcome = ParseFailed{}
	_ Outcome = GotResult{}
	_ Outcome = GotError{}
	_ Outcome = Halted{}
)

// Published reports whether o should be delivered to the consumer.
func Published(o Outcome) bool {
	switch o.(type) {
	case GotResult, GotError:
		return true
	default:
		return false
	}
}
