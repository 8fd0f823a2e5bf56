//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// StubUpdateCommand is a stub implementation of commands.Update.
type StubUpdateCommand struct {
	ExecuteCallCount int
	ExecuteResults   []entities.SyncResult
	ExecuteErr       error
	LastOpts         commands.UpdateOptions
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.UpdateOptions,
) ([]entities.SyncResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteResults, s.ExecuteErr
}
