package worker

import "context"

// Worker is a long-running loop supervised by Manager.
type Worker interface {
	Start(ctx context.Context) error
}
