package entities

// EngineState is a step of the generate pipeline.
type EngineState string

const (
	StateIdle               EngineState = "idle"
	StateSourcesResolving   EngineState = "sources-resolving"
	StateReposSyncing       EngineState = "repos-syncing"
	StateIndexing           EngineState = "indexing"
	StateTemplatesResolving EngineState = "templates-resolving"
	StateConsolidating      EngineState = "consolidating"
	StateDone               EngineState = "done"
	StateFailed             EngineState = "failed"
)

// SourceFailure records a source excluded from a run.
type SourceFailure struct {
	Source string
	Err    error
}

// Report is the outcome of a generate run. It is returned even when the run
// fails so callers can always tell which templates were used or missing.
type Report struct {
	State        EngineState
	FailedAt     EngineState // Step that failed, empty unless State is StateFailed
	Used         []Template
	Missing      []string
	Skipped      []SourceFailure
	ReadFailures []error
	Synced       []SyncResult
	Output       string
	Lines        int
}

// UsedNames returns the names of the templates merged into the output,
// qualified with their source when two used templates share a name.
func (r *Report) UsedNames() []string {
	counts := make(map[string]int, len(r.Used))
	for _, t := range r.Used {
		counts[t.Name]++
	}

	names := make([]string, 0, len(r.Used))
	for _, t := range r.Used {
		if counts[t.Name] > 1 {
			names = append(names, t.Key())
			continue
		}
		names = append(names, t.Name)
	}
	return names
}

// SkippedNames returns the names of the sources that were excluded.
func (r *Report) SkippedNames() []string {
	names := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		names = append(names, s.Source)
	}
	return names
}
