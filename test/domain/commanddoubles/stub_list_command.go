//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/ignore/internal/domain/commands"
	"github.com/rios0rios0/ignore/internal/domain/entities"
)

// StubListCommand is a stub implementation of commands.List.
type StubListCommand struct {
	ExecuteCallCount int
	ExecuteResult    *commands.ListResult
	ExecuteErr       error
	LastOpts         commands.ListOptions
}

var _ commands.List = (*StubListCommand)(nil)

func (s *StubListCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.ListOptions,
) (*commands.ListResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteResult, s.ExecuteErr
}
