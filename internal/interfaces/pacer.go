package interfaces

import "context"

// Pacer inserts think time between browser actions. Production uses
// randomized delays; tests inject a no-op so the state machine runs
// without real waits.
type Pacer interface {
	Wait(ctx context.Context)
}
