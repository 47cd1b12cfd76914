package rest

import (
	"time"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/service"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type profileRequest struct {
	Name           *string `json:"name"`
	Timezone       *string `json:"timezone"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Timezone       string    `json:"timezone"`
	TelegramChatID *int64    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func newUserResponse(u *entities.User) userResponse {
	return userResponse{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		Timezone:       u.Timezone,
		TelegramChatID: u.TelegramChatID,
		CreatedAt:      u.CreatedAt,
	}
}

type topicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type reviewResponse struct {
	ID          string    `json:"id"`
	CycleIndex  int       `json:"cycle_index"`
	CompletedAt time.Time `json:"completed_at"`
}

type topicResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	AddedAt      time.Time        `json:"added_at"`
	CurrentCycle int              `json:"current_cycle"`
	NextReview   time.Time        `json:"next_review"`
	Slug         string           `json:"slug"`
	Reviews      []reviewResponse `json:"reviews"`
}

func newTopicResponse(t *entities.Topic) topicResponse {
	reviews := make([]reviewResponse, 0, len(t.CompletedCycles))
	for _, r := range t.CompletedCycles {
		reviews = append(reviews, reviewResponse{
			ID:          r.ID.String(),
			CycleIndex:  r.CycleIndex,
			CompletedAt: r.CompletedAt,
		})
	}

	return topicResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		Description:  t.Description,
		AddedAt:      t.AddedAt,
		CurrentCycle: t.CurrentCycle,
		NextReview:   t.NextReview,
		Slug:         entities.TopicSlug(t),
		Reviews:      reviews,
	}
}

func newTopicResponses(topics []*entities.Topic) []topicResponse {
	out := make([]topicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, newTopicResponse(t))
	}
	return out
}

type dashboardResponse struct {
	NeedsReview []topicResponse `json:"needs_review"`
	Upcoming    []topicResponse `json:"upcoming"`
}

type groupResponse struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Slug   string          `json:"slug"`
	Topics []topicResponse `json:"topics"`
}

func newGroupResponse(g entities.TopicGroup) groupResponse {
	return groupResponse{
		Key:    g.Key,
		Label:  g.Label,
		Slug:   g.Slug,
		Topics: newTopicResponses(g.Topics),
	}
}

type importResponse struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

func newImportResponse(s service.ImportSummary) importResponse {
	errs := s.Errors
	if errs == nil {
		errs = []string{}
	}
	return importResponse{Created: s.Created, Skipped: s.Skipped, Errors: errs}
}

type questionResponse struct {
	ID            string                    `json:"id"`
	TopicID       string                    `json:"topic_id"`
	TopicTitle    string                    `json:"topic_title,omitempty"`
	Question      string                    `json:"question"`
	Options       []entities.QuestionOption `json:"options"`
	CorrectOption entities.OptionKey        `json:"correct_option,omitempty"`
	Status        entities.QuestionStatus   `json:"status"`
	Source        entities.QuestionSource   `json:"source"`
	CreatedAt     time.Time                 `json:"created_at"`
}

func newQuestionResponse(q *entities.Question) *questionResponse {
	if q == nil {
		return nil
	}
	return &questionResponse{
		ID:            q.ID.String(),
		TopicID:       q.TopicID.String(),
		TopicTitle:    q.TopicTitle,
		Question:      q.Text,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		Status:        q.Status,
		Source:        q.Source,
		CreatedAt:     q.CreatedAt,
	}
}

// newQuizQuestionResponse hides the answer. Used for every question a user
// may still have to answer.
func newQuizQuestionResponse(q *entities.Question) *questionResponse {
	resp := newQuestionResponse(q)
	if resp != nil {
		resp.CorrectOption = ""
	}
	return resp
}

type nextQuestionResponse struct {
	ActiveQuestionsCount int               `json:"active_questions_count"`
	Question             *questionResponse `json:"question"`
	AnsweredToday        bool              `json:"answered_today"`
}

type answerRequest struct {
	SelectedOption entities.OptionKey `json:"selected_option"`
}

type answerResponse struct {
	QuestionID           string             `json:"question_id"`
	SelectedOption       entities.OptionKey `json:"selected_option"`
	CorrectOption        entities.OptionKey `json:"correct_option"`
	IsCorrect            bool               `json:"is_correct"`
	ActiveQuestionsCount int                `json:"active_questions_count"`
	NextQuestion         *questionResponse  `json:"next_question"`
}

type generateRequest struct {
	Summary string `json:"summary"`
}

type createQuestionRequest struct {
	Question      string                    `json:"question"`
	Options       []entities.QuestionOption `json:"options"`
	CorrectOption entities.OptionKey        `json:"correct_option"`
}

type questionStatusRequest struct {
	Status entities.QuestionStatus `json:"status"`
}
