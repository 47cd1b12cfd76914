package service

import (
	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

// QuestionSelector picks which active question a topic serves next.
type QuestionSelector struct{}

// Select returns the question answered the fewest times, the oldest one on
// ties, or nil when there is nothing active.
func (QuestionSelector) Select(active []*entities.Question, attempts map[uuid.UUID]int) *entities.Question {
	var best *entities.Question
	for _, q := range active {
		if !q.IsActive() {
			continue
		}
		if best == nil || lessAnswered(q, best, attempts) {
			best = q
		}
	}
	return best
}

func lessAnswered(a, b *entities.Question, attempts map[uuid.UUID]int) bool {
	if attempts[a.ID] != attempts[b.ID] {
		return attempts[a.ID] < attempts[b.ID]
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
