package agents

// Feedback is the comprehension agent's payload: a score with itemized
// observations about the submitted summary.
type Feedback struct {
	Score             int      `json:"score"`
	GoodPoints        []string `json:"good_points"`
	ImprovementPoints []string `json:"improvement_points"`
	MissedPoints      []string `json:"missed_points"`
}

// NextAction is one suggested follow-up task from the action-item agent.
type NextAction struct {
	Action    string `json:"action"`
	Priority  string `json:"priority"`
	IsChecked bool   `json:"isChecked"`
}

// Questions is the question-generation agent's payload.
type Questions []string
