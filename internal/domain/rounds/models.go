package rounds

// Status mirrors the round lifecycle from scheduling to completion.
type Status string

const (
	StatusScheduled        Status = "scheduled"
	StatusAvailabilityOpen Status = "availability_open"
	StatusFoursomesSet     Status = "foursomes_set"
	StatusInProgress       Status = "in_progress"
	StatusScoring          Status = "scoring"
	StatusCompleted        Status = "completed"
)

var known = map[Status]struct{}{
	StatusScheduled:        {},
	StatusAvailabilityOpen: {},
	StatusFoursomesSet:     {},
	StatusInProgress:       {},
	StatusScoring:          {},
	StatusCompleted:        {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := known[s]
	return ok
}

// ScoreEntryOpen reports whether golfers may enter their own scores.
func (s Status) ScoreEntryOpen() bool {
	return s == StatusInProgress || s == StatusScoring
}

// Round is one scheduled play date in a season.
type Round struct {
	ID     string `json:"id"`
	Season int    `json:"season"`
	Number int    `json:"number"`
	Date   string `json:"date"`
	Status Status `json:"status"`
}
