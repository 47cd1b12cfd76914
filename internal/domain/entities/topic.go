// Package entities contains domain entities used across the application.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReviewIntervalsDays is the fixed forgetting-curve schedule, indexed by cycle (R1, R7, R15, R30).
var ReviewIntervalsDays = []int{1, 7, 15, 30}

// GraduatedHorizonDays is how far out a topic in the terminal cycle is pushed after each review.
var GraduatedHorizonDays = 365

// Topic is a unit of study material tracked by the review schedule.
type Topic struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Description     string
	AddedAt         time.Time
	CurrentCycle    int       // index into ReviewIntervalsDays
	NextReview      time.Time // moment the topic becomes due
	CompletedCycles []Review  // append-only, in completion order
}

// Review is one completed review of a topic.
type Review struct {
	ID          uuid.UUID
	CycleIndex  int       // cycle that was completed
	CompletedAt time.Time // full timestamp, not normalized
}

// NewTopic creates a topic at cycle 0 due one interval after the day of now.
func NewTopic(userID uuid.UUID, title, description string, now time.Time) *Topic {
	return &Topic{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Description:  description,
		AddedAt:      now,
		CurrentCycle: 0,
		NextReview:   DueDateForCycle(0, now),
	}
}

// TerminalCycle returns the index of the last cycle in the schedule.
func TerminalCycle() int {
	return len(ReviewIntervalsDays) - 1
}

// ClampCycleIndex forces index into [0, TerminalCycle()].
func ClampCycleIndex(index int) int {
	return min(max(index, 0), TerminalCycle())
}

// StartOfDay strips the time of day from t in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueDateForCycle returns the start of now's day plus the interval of the given cycle.
// Out-of-range indexes are clamped.
func DueDateForCycle(cycleIndex int, now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, ReviewIntervalsDays[ClampCycleIndex(cycleIndex)])
}

// IsTerminal reports whether the topic has reached the last cycle.
func (t *Topic) IsTerminal() bool {
	return t.CurrentCycle >= TerminalCycle()
}

// CompleteReview advances the topic after a finished review.
//
// A topic below the terminal cycle moves to the next cycle and is rescheduled
// from the table. A terminal topic keeps its cycle and is pushed
// GraduatedHorizonDays out. Either way exactly one review is appended.
func (t *Topic) CompleteReview(now time.Time) Review {
	completed := t.CurrentCycle

	if t.IsTerminal() {
		t.NextReview = StartOfDay(now).AddDate(0, 0, GraduatedHorizonDays)
	} else {
		t.CurrentCycle++
		t.NextReview = DueDateForCycle(t.CurrentCycle, now)
	}

	review := Review{
		ID:          uuid.New(),
		CycleIndex:  completed,
		CompletedAt: now,
	}
	t.CompletedCycles = append(t.CompletedCycles, review)

	return review
}

// Edit replaces title and description. The schedule is untouched.
func (t *Topic) Edit(title, description string) {
	t.Title = title
	t.Description = description
}

// IsDue reports whether nextReview is not after the start of now's day.
func (t *Topic) IsDue(now time.Time) bool {
	return !t.NextReview.After(StartOfDay(now))
}

// CycleLabel returns the human label of the current cycle, e.g. "R1".
func (t *Topic) CycleLabel() string {
	return CycleLabel(t.CurrentCycle)
}
