package constants

const (
	StageNotStarted = "not-started"
	StageInProgress = "in-progress"
	StageCompleted  = "completed"
	StageCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidStage(s string) bool {
	switch s {
	case StageNotStarted, StageInProgress, StageCompleted, StageCancelled:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
