package entities

import "time"

// ReminderDigest summarizes what a user has to review today.
type ReminderDigest struct {
	DueCount int
	Titles   []string // earliest due first, at most the requested limit
}

// BuildDigest collects the due topics at now into a digest.
func BuildDigest(topics []*Topic, now time.Time, limit int) ReminderDigest {
	due := SplitByDue(topics, now).NeedsReview

	digest := ReminderDigest{DueCount: len(due)}
	for i, t := range due {
		if i == limit {
			break
		}
		digest.Titles = append(digest.Titles, t.Title)
	}

	return digest
}
