package service

import (
	"context"
	"errors"
	"log/slog"

	"photoshare/storage"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga collects undo steps while a multi-resource operation advances and
// runs them newest first when it has to give up.
type saga struct {
	log   *slog.Logger
	steps []compensation
}

func (s *saga) onFailure(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

func (s *saga) rollback(ctx context.Context) {
	// compensations must run even when the request was cancelled
	ctx = context.WithoutCancel(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		err := step.undo(ctx)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrNotFound):
			s.log.Warn("compensation target already gone", "step", step.name)
		default:
			s.log.Error("compensation failed", "step", step.name, "error", err)
		}
	}
	s.steps = nil
}

func deleteFile(store storage.StorageAPI, path string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return store.Delete(ctx, path)
	}
}
