package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker until ctx is cancelled and waits for all of them to
// return. Errors from workers that exited early are joined.
func (m *Manager) Start(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				slog.Error("manager: worker stopped", "worker", fmt.Sprintf("%T", w), "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(w)
	}
	<-ctx.Done()
	wg.Wait()
	return errors.Join(errs...)
}
