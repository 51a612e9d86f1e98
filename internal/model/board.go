package model

// GoalProgress is one goal together with today's tally.
type GoalProgress struct {
	Goal      *Goal   `json:"goal"`
	TextHTML  string  `json:"text_html,omitempty"`
	Count     int     `json:"count"`
	Remaining int     `json:"remaining"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// Board is the view of every goal for a single day, in creation order.
type Board struct {
	Day   string          `json:"day"`
	Goals []*GoalProgress `json:"goals"`
}

// Goal returns the entry for goalID, or nil.
func (b *Board) Goal(goalID string) *GoalProgress {
	for _, g := range b.Goals {
		if g.Goal.ID == goalID {
			return g
		}
	}
	return nil
}
