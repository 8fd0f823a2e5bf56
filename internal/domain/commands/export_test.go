package commands

import (
	"time"
)

// SelectSources exports selectSources for testing.
var SelectSources = selectSources //nolint:gochecknoglobals // test export

// UsedTemplates exports usedTemplates for testing.
var UsedTemplates = usedTemplates //nolint:gochecknoglobals // test export

// SetClock replaces the clock of a SourceSyncer for testing.
func (it *SourceSyncer) SetClock(clock func() time.Time) {
	it.clock = clock
}
