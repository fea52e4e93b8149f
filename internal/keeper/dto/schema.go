package dto

// MigrationStatus is the result of one best-effort schema step.
type MigrationStatus string

const (
	// MigrationApplied means the step changed the schema.
	MigrationApplied MigrationStatus = "applied"
	// MigrationSkipped means the schema was already in the target shape.
	MigrationSkipped MigrationStatus = "skipped"
	// MigrationFailed means the step errored and was left incomplete.
	MigrationFailed MigrationStatus = "failed"
)

// MigrationStep records what happened to one schema migration.
type MigrationStep struct {
	Name   string          `json:"name"`
	Status MigrationStatus `json:"status"`
	Err    error           `json:"-"`
}

// SchemaReport lists the best-effort migration steps from a schema
// ensure pass. Fatal failures (table or index creation) never appear
// here; they abort the pass instead.
type SchemaReport struct {
	Steps []MigrationStep `json:"steps"`
}

// Add records one step result.
func (r *SchemaReport) Add(name string, status MigrationStatus, err error) {
	r.Steps = append(r.Steps, MigrationStep{Name: name, Status: status, Err: err})
}

// FailedSteps returns the steps that errored.
func (r *SchemaReport) FailedSteps() []MigrationStep {
	var failed []MigrationStep
	for _, s := range r.Steps {
		if s.Status == MigrationFailed {
			failed = append(failed, s)
		}
	}
	return failed
}
