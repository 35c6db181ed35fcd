package valueobjects

// PipelineStage groups statuses for dashboard counts. Every status belongs to exactly one stage.
type PipelineStage string

const (
	StageUntriaged    PipelineStage = "untriaged"
	StageYourDecision PipelineStage = "your_decision"
	StageAgentWorking PipelineStage = "agent_working"
	StageTesting      PipelineStage = "testing"
	StageUserReview   PipelineStage = "user_review"
	StageDone         PipelineStage = "done"
)

var allStages = []PipelineStage{
	StageUntriaged,
	StageYourDecision,
	StageAgentWorking,
	StageTesting,
	StageUserReview,
	StageDone,
}

var stageStatuses = map[PipelineStage][]TicketStatus{
	StageUntriaged:    {StatusNew},
	StageYourDecision: {StatusTriaged},
	StageAgentWorking: {StatusApproved, StatusInProgress},
	StageTesting:      {StatusInReview},
	StageUserReview:   {StatusUserReview},
	StageDone:         {StatusResolved, StatusClosed},
}

func (s PipelineStage) String() string {
	return string(s)
}

// AllStages returns the stages in pipeline order.
func AllStages() []PipelineStage {
	out := make([]PipelineStage, len(allStages))
	copy(out, allStages)
	return out
}

// Statuses returns the statuses grouped under the stage.
func (s PipelineStage) Statuses() []TicketStatus {
	src := stageStatuses[s]
	out := make([]TicketStatus, len(src))
	copy(out, src)
	return out
}

// StageOf returns the stage a status belongs to.
func StageOf(status TicketStatus) (PipelineStage, bool) {
	for _, stage := range allStages {
		for _, st := range stageStatuses[stage] {
			if st == status {
				return stage, true
			}
		}
	}
	return "", false
}
