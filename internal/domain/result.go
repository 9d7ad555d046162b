package domain

import "time"

type FieldStatus string

const (
	FieldStatusCreated FieldStatus = "created"
	FieldStatusSkipped FieldStatus = "skipped"
	FieldStatusFailed  FieldStatus = "failed"
)

type FieldOutcome struct {
	Name       string
	Status     FieldStatus
	FieldID    int64
	Err        error `json:"-"`
	DefaultErr error `json:"-"`
}

type ViewAction string

const (
	ViewActionNotAttempted ViewAction = "not_attempted"
	ViewActionCreated      ViewAction = "created"
	ViewActionUpdated      ViewAction = "updated"
	ViewActionFailed       ViewAction = "failed"
)

type ViewOutcome struct {
	Name      string
	ID        int64
	Action    ViewAction
	LayoutKey string
	Err       error `json:"-"`
}

func (v ViewOutcome) Completed() bool {
	return v.Action == ViewActionCreated || v.Action == ViewActionUpdated
}

type SyncResult struct {
	RunID                  string
	TemplateName           string
	TemplateID             int64
	Model                  string
	Total                  int
	Created                int
	Skipped                int
	Failed                 int
	FailedFields           []string
	Fields                 []FieldOutcome
	View                   ViewOutcome
	UnresolvedLayoutFields []string
	DryRun                 bool
	StartedAt              time.Time
	FinishedAt             time.Time
	Success                bool
}

// Record folds one field outcome into the counters.
func (r *SyncResult) Record(outcome FieldOutcome) {
	r.Fields = append(r.Fields, outcome)
	switch outcome.Status {
	case FieldStatusCreated:
		r.Created++
	case FieldStatusSkipped:
		r.Skipped++
	case FieldStatusFailed:
		r.Failed++
		r.FailedFields = append(r.FailedFields, outcome.Name)
	}
}
