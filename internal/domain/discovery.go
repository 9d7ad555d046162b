package domain

type ModelInfo struct {
	Model string
	Name  string
}

type FieldInfo struct {
	Name  string
	Label string
}

type ModuleInfo struct {
	Name    string
	Summary string
}

type BaseModel string

const (
	BaseModelFSMWorksheet BaseModel = "fsm.worksheet"
	BaseModelProjectTask  BaseModel = "project.task"
	BaseModelNone         BaseModel = ""
)

type DiscoveryReport struct {
	Keywords        []string
	Models          []ModelInfo
	KeywordErrors   map[string]string
	ProjectTask     bool
	ProjectTaskErr  string
	WorksheetFields []FieldInfo
	Modules         []ModuleInfo
	ModulesErr      string
	Recommended     BaseModel
}

// Recommend picks the base model the way the field service setup guide
// prefers it: enterprise worksheets first, then plain project tasks.
func (r DiscoveryReport) Recommend() BaseModel {
	hasFSM := false
	hasTask := r.ProjectTask
	for _, model := range r.Models {
		switch BaseModel(model.Model) {
		case BaseModelFSMWorksheet:
			hasFSM = true
		case BaseModelProjectTask:
			hasTask = true
		}
	}

	switch {
	case hasFSM:
		return BaseModelFSMWorksheet
	case hasTask:
		return BaseModelProjectTask
	default:
		return BaseModelNone
	}
}
