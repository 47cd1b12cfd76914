package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OptionKey labels one of the four answer options.
type OptionKey string

const (
	OptionA OptionKey = "A"
	OptionB OptionKey = "B"
	OptionC OptionKey = "C"
	OptionD OptionKey = "D"
)

// OptionKeys lists the valid keys in display order.
var OptionKeys = []OptionKey{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether k is one of OptionKeys.
func (k OptionKey) Valid() bool {
	switch k {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// QuestionStatus controls whether a question may be served.
type QuestionStatus string

const (
	QuestionActive   QuestionStatus = "ACTIVE"
	QuestionInactive QuestionStatus = "INACTIVE"
)

// QuestionSource records who authored a question.
type QuestionSource string

const (
	SourceUser QuestionSource = "USER"
	SourceAI   QuestionSource = "AI"
)

var (
	ErrInvalidOption  = errors.New("invalid option")
	ErrInvalidOptions = errors.New("a question needs exactly four non-empty options")
)

// QuestionOption is one labelled answer.
type QuestionOption struct {
	Key  OptionKey `json:"key"`
	Text string    `json:"text"`
}

// Question is a multiple-choice comprehension question about a topic.
type Question struct {
	ID            uuid.UUID
	TopicID       uuid.UUID
	Text          string
	Options       []QuestionOption
	CorrectOption OptionKey
	Status        QuestionStatus
	Source        QuestionSource
	CreatedAt     time.Time

	TopicTitle string // filled by listing queries only
}

// NewQuestion builds an active question. Options must carry A..D exactly once
// and correct must be one of them.
func NewQuestion(topicID uuid.UUID, text string, options []QuestionOption, correct OptionKey, source QuestionSource, now time.Time) (*Question, error) {
	if err := validateOptions(options); err != nil {
		return nil, err
	}
	if !correct.Valid() {
		return nil, ErrInvalidOption
	}

	return &Question{
		ID:            uuid.New(),
		TopicID:       topicID,
		Text:          text,
		Options:       options,
		CorrectOption: correct,
		Status:        QuestionActive,
		Source:        source,
		CreatedAt:     now,
	}, nil
}

func validateOptions(options []QuestionOption) error {
	if len(options) != len(OptionKeys) {
		return ErrInvalidOptions
	}

	seen := make(map[OptionKey]bool, len(options))
	for _, o := range options {
		if !o.Key.Valid() || seen[o.Key] || o.Text == "" {
			return ErrInvalidOptions
		}
		seen[o.Key] = true
	}

	return nil
}

// IsActive reports whether the question can be served.
func (q *Question) IsActive() bool {
	return q.Status == QuestionActive
}

// Check grades an answer.
func (q *Question) Check(selected OptionKey) (AnswerResult, error) {
	if !selected.Valid() {
		return AnswerResult{}, ErrInvalidOption
	}

	return AnswerResult{
		QuestionID:     q.ID,
		SelectedOption: selected,
		CorrectOption:  q.CorrectOption,
		IsCorrect:      selected == q.CorrectOption,
	}, nil
}

// QuestionAttempt is a recorded answer.
type QuestionAttempt struct {
	ID             uuid.UUID
	TopicID        uuid.UUID
	QuestionID     uuid.UUID
	UserID         uuid.UUID
	SelectedOption OptionKey
	IsCorrect      bool
	CreatedAt      time.Time
}

// NewQuestionAttempt records result for user at now.
func NewQuestionAttempt(userID, topicID uuid.UUID, result AnswerResult, now time.Time) *QuestionAttempt {
	return &QuestionAttempt{
		ID:             uuid.New(),
		TopicID:        topicID,
		QuestionID:     result.QuestionID,
		UserID:         userID,
		SelectedOption: result.SelectedOption,
		IsCorrect:      result.IsCorrect,
		CreatedAt:      now,
	}
}

// AnswerResult is the outcome of grading one answer.
type AnswerResult struct {
	QuestionID     uuid.UUID
	SelectedOption OptionKey
	CorrectOption  OptionKey
	IsCorrect      bool
}

// NextQuestionState is what the quiz service reports for a topic on a given day.
type NextQuestionState struct {
	ActiveQuestionsCount int
	Question             *Question
	AnsweredToday        bool
}

// GeneratedQuestion is a question drafted by a QuestionGenerator before its
// options are assigned keys.
type GeneratedQuestion struct {
	Text        string   `json:"question"`
	Correct     string   `json:"correct"`
	Distractors []string `json:"distractors"`
}
