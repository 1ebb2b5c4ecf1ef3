package validation

import "fmt"

// Stage identifies which check rejected a value. Shape failures mean the
// backend payload does not match the persisted structure the client expects;
// business failures mean the structure parsed but violates a domain rule;
// input failures mean the caller supplied bad parameters and nothing was sent.
type Stage string

const (
	StageShape    Stage = "shape"
	StageBusiness Stage = "business"
	StageInput    Stage = "input"
)

// Error reports a schema violation at the gateway boundary. It is a distinct
// kind from remote failures: it signals a client/backend contract mismatch
// and must never be retried automatically.
type Error struct {
	Stage  Stage
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed (%s): %s: %v", e.Stage, e.Detail, e.Err)
	}
	return fmt.Sprintf("validation failed (%s): %s", e.Stage, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }
