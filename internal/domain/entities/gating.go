package entities

import "errors"

// GateState is the day's quiz situation for one topic.
type GateState struct {
	ActiveQuestionsCount int
	AnsweredToday        bool
	LastAnswer           *AnswerResult // set only after an answer in the current session
	APIUnavailable       bool          // the question service could not be reached
}

// GateDecision is what the review screen may show and do.
type GateDecision struct {
	IsBlocked         bool // no question to answer and the gate is not yet satisfied
	ContentUnlocked   bool // the summary may be shown
	CanCompleteReview bool // "mark as reviewed" is enabled
}

// EvaluateGate derives the visibility and completion rules from the day's quiz state.
//
// An incorrect answer unlocks content just like a correct one. When the
// question service is unavailable, review completion is never blocked.
func EvaluateGate(s GateState) GateDecision {
	answered := s.LastAnswer != nil

	return GateDecision{
		IsBlocked:         !s.APIUnavailable && s.ActiveQuestionsCount == 0 && !s.AnsweredToday,
		ContentUnlocked:   s.AnsweredToday || answered,
		CanCompleteReview: answered || s.APIUnavailable || s.AnsweredToday,
	}
}

// ReviewPhase is the state of a review session on a topic.
type ReviewPhase string

const (
	PhaseLoading    ReviewPhase = "loading"
	PhaseBlocked    ReviewPhase = "blocked"
	PhaseNoQuestion ReviewPhase = "no_question"
	PhaseUnanswered ReviewPhase = "unanswered"
	PhaseAnswered   ReviewPhase = "answered"
)

var (
	ErrNoQuestionToAnswer = errors.New("no question to answer")
	ErrAlreadyAnswered    = errors.New("question already answered")
	ErrNotLoading         = errors.New("session is not waiting for a question")
	ErrNotBlocked         = errors.New("session is not blocked")
)

// ReviewSession tracks the quiz-before-reveal flow for one topic in one viewing session.
// It is rebuilt every time the topic is opened and never persisted.
type ReviewSession struct {
	phase    ReviewPhase
	state    GateState
	question *Question
}

// NewReviewSession starts a session waiting for its question fetch.
func NewReviewSession() *ReviewSession {
	return &ReviewSession{phase: PhaseLoading}
}

// Phase returns the current phase.
func (s *ReviewSession) Phase() ReviewPhase {
	return s.phase
}

// Question returns the question on display, if any.
func (s *ReviewSession) Question() *Question {
	return s.question
}

// Loaded applies the result of a successful question fetch.
func (s *ReviewSession) Loaded(next NextQuestionState) error {
	if s.phase != PhaseLoading {
		return ErrNotLoading
	}

	s.state = GateState{
		ActiveQuestionsCount: next.ActiveQuestionsCount,
		AnsweredToday:        next.AnsweredToday,
	}
	s.question = next.Question

	switch {
	case EvaluateGate(s.state).IsBlocked:
		s.phase = PhaseBlocked
	case next.Question == nil:
		s.phase = PhaseNoQuestion
	default:
		s.phase = PhaseUnanswered
	}

	return nil
}

// Unavailable records that the question service could not be reached.
// The quiz area is hidden and review completion is allowed.
func (s *ReviewSession) Unavailable() error {
	if s.phase != PhaseLoading {
		return ErrNotLoading
	}

	s.state = GateState{APIUnavailable: true}
	s.question = nil
	s.phase = PhaseNoQuestion

	return nil
}

// CanSelect reports whether option buttons are live.
func (s *ReviewSession) CanSelect() bool {
	return s.phase == PhaseUnanswered && s.state.LastAnswer == nil
}

// Answered records the graded answer to the displayed question. Only one answer
// per question instance is accepted.
func (s *ReviewSession) Answered(result AnswerResult) error {
	switch s.phase {
	case PhaseAnswered:
		return ErrAlreadyAnswered
	case PhaseUnanswered:
	default:
		return ErrNoQuestionToAnswer
	}
	if s.question == nil || s.question.ID != result.QuestionID {
		return ErrNoQuestionToAnswer
	}

	r := result
	s.state.LastAnswer = &r
	s.phase = PhaseAnswered

	return nil
}

// Generated moves a blocked session back to loading so the new question is fetched.
func (s *ReviewSession) Generated() error {
	if s.phase != PhaseBlocked {
		return ErrNotBlocked
	}
	s.phase = PhaseLoading
	return nil
}

// LastAnswer returns the answer given in this session, if any.
func (s *ReviewSession) LastAnswer() *AnswerResult {
	return s.state.LastAnswer
}

// Decision evaluates the gate for the current session state.
func (s *ReviewSession) Decision() GateDecision {
	return EvaluateGate(s.state)
}
