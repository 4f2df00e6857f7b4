package reconcile

// Stage is a step of row processing.
type Stage int

// Stages in the order a row passes through them.
const (
	StageFetchEntities Stage = iota
	StageResolveAccount
	StageResolveWorkspace
	StageAssignRole
	StageResolveMilestone
	StageDone
)

var stageNames = [...]string{
	StageFetchEntities:    "FETCH_ENTITIES",
	StageResolveAccount:   "RESOLVE_ACCOUNT",
	StageResolveWorkspace: "RESOLVE_WORKSPACE",
	StageAssignRole:       "ASSIGN_ROLE",
	StageResolveMilestone: "RESOLVE_MILESTONE",
	StageDone:             "DONE",
}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "UNKNOWN"
	}
	return stageNames[s]
}
