package rest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/service"
)

var (
	testNow  = time.Date(2025, 3, 10, 15, 42, 7, 0, time.UTC)
	testUser = uuid.MustParse("7a1c2f7e-4d7b-4f3a-9a51-0c2b9c8e1d11")
)

type fixture struct {
	server  *Server
	auth    *stubAuth
	topics  *stubTopics
	reviews *stubReviews
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	f := &fixture{auth: &stubAuth{}, topics: &stubTopics{}, reviews: &stubReviews{}}
	f.server = NewServer(cfg, f.auth, f.topics, f.reviews, stubTokens{userID: testUser}, zap.NewNop())
	f.server.now = func() time.Time { return testNow }

	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer valid")
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodGet, "/healthz", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodGet, "/topics", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not authenticated", decode[errorResponse](t, rec).Detail)

	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupReturnsToken(t *testing.T) {
	f := newFixture(t, Config{})
	f.auth.signup = func(name, email, password, timezone string) (string, error) {
		assert.Equal(t, "Ana", name)
		assert.Equal(t, "ana@example.com", email)
		assert.Equal(t, "UTC-3", timezone)
		return "jwt", nil
	}

	rec := f.do(t, http.MethodPost, "/auth/signup",
		`{"name":"Ana","email":"ana@example.com","password":"secret123","timezone":"UTC-3"}`, false)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[tokenResponse](t, rec)
	assert.Equal(t, "jwt", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"nope"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndFetchTopicBySlug(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodPost, "/topics", `{"title":"Go Channels","description":"select"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decode[topicResponse](t, rec)
	assert.Equal(t, 0, created.CurrentCycle)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), created.NextReview.UTC())
	assert.True(t, strings.HasPrefix(created.Slug, "go-channels-"))

	rec = f.do(t, http.MethodGet, "/topics/"+created.Slug, "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[topicResponse](t, rec).ID)
}

func TestCreateTopicValidation(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodPost, "/topics", `{"title":""}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetTopicUnknownIDIs404(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodGet, "/topics/not-a-uuid", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/topics/"+uuid.NewString(), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteReviewAdvancesCycle(t *testing.T) {
	f := newFixture(t, Config{})
	topic := entities.NewTopic(testUser, "Graphs", "", testNow.AddDate(0, 0, -2))
	f.topics.topics = []*entities.Topic{topic}

	rec := f.do(t, http.MethodPost, "/topics/"+topic.ID.String()+"/review", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[topicResponse](t, rec)
	assert.Equal(t, 1, resp.CurrentCycle)
	assert.Len(t, resp.Reviews, 1)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), resp.NextReview.UTC())
}

func TestCompleteReviewLocked(t *testing.T) {
	f := newFixture(t, Config{})
	f.topics.complete = service.ErrReviewLocked

	rec := f.do(t, http.MethodPost, "/topics/"+uuid.NewString()+"/review", "", true)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListTopicsPagination(t *testing.T) {
	f := newFixture(t, Config{})
	for i := range 5 {
		f.topics.topics = append(f.topics.topics, entities.NewTopic(testUser, "T", "", testNow.AddDate(0, 0, -i)))
	}

	rec := f.do(t, http.MethodGet, "/topics?page=3&page_size=2", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get(headerTotalCount))
	assert.Equal(t, "3", rec.Header().Get(headerTotalPages))
	assert.Len(t, decode[[]topicResponse](t, rec), 1)
}

func TestDashboardSplitsDue(t *testing.T) {
	f := newFixture(t, Config{})
	f.topics.topics = []*entities.Topic{
		entities.NewTopic(testUser, "old", "", testNow.AddDate(0, 0, -3)),
		entities.NewTopic(testUser, "new", "", testNow),
	}

	rec := f.do(t, http.MethodGet, "/topics/dashboard", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dashboardResponse](t, rec)
	require.Len(t, resp.NeedsReview, 1)
	assert.Equal(t, "old", resp.NeedsReview[0].Title)
	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, "new", resp.Upcoming[0].Title)
}

func TestThemeNotFound(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodGet, "/topics/themes/missing", "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswer(t *testing.T) {
	f := newFixture(t, Config{})
	path := "/topics/" + uuid.NewString() + "/review/questions/" + uuid.NewString() + "/attempts"

	rec := f.do(t, http.MethodPost, path, `{"selected_option":"B"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[answerResponse](t, rec)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, entities.OptionB, resp.CorrectOption)

	f.reviews.answerErr = entities.ErrAlreadyAnswered
	rec = f.do(t, http.MethodPost, path, `{"selected_option":"A"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateWithoutGenerator(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodPost, "/topics/"+uuid.NewString()+"/questions/ai-generate", "", true)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func quizQuestion() *entities.Question {
	return &entities.Question{
		ID:      uuid.New(),
		TopicID: uuid.New(),
		Text:    "Which structure does BFS use?",
		Options: []entities.QuestionOption{
			{Key: entities.OptionA, Text: "Stack"},
			{Key: entities.OptionB, Text: "Heap"},
			{Key: entities.OptionC, Text: "Queue"},
			{Key: entities.OptionD, Text: "Trie"},
		},
		CorrectOption: entities.OptionC,
		Status:        entities.QuestionActive,
		Source:        entities.SourceAI,
	}
}

func TestNextQuestionHidesCorrectOption(t *testing.T) {
	f := newFixture(t, Config{})
	f.reviews.next = entities.NextQuestionState{ActiveQuestionsCount: 1, Question: quizQuestion()}

	rec := f.do(t, http.MethodGet, "/topics/"+uuid.NewString()+"/review/next-question", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct_option")
	resp := decode[nextQuestionResponse](t, rec)
	require.NotNil(t, resp.Question)
	assert.Len(t, resp.Question.Options, 4)
	assert.Equal(t, 1, resp.ActiveQuestionsCount)
}

func TestNextQuestionAnsweredToday(t *testing.T) {
	f := newFixture(t, Config{})
	f.reviews.next = entities.NextQuestionState{ActiveQuestionsCount: 1, AnsweredToday: true}

	rec := f.do(t, http.MethodGet, "/topics/"+uuid.NewString()+"/review/next-question", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[nextQuestionResponse](t, rec)
	assert.Nil(t, resp.Question)
	assert.True(t, resp.AnsweredToday)
}

func TestGenerateHidesCorrectOption(t *testing.T) {
	f := newFixture(t, Config{})
	f.reviews.generated = quizQuestion()

	rec := f.do(t, http.MethodPost, "/topics/"+uuid.NewString()+"/questions/ai-generate", `{"summary":"graphs"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct_option")
	assert.Contains(t, rec.Body.String(), "Which structure")
}

func TestAIBankHidesCorrectOption(t *testing.T) {
	f := newFixture(t, Config{})
	f.reviews.bank = []*entities.Question{{
		ID:            uuid.New(),
		TopicID:       uuid.New(),
		TopicTitle:    "Graphs",
		Text:          "BFS uses?",
		CorrectOption: entities.OptionC,
		Status:        entities.QuestionActive,
		Source:        entities.SourceAI,
	}}

	rec := f.do(t, http.MethodGet, "/topics/questions/ai", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct_option")
	assert.Contains(t, rec.Body.String(), `"topic_title":"Graphs"`)
}

func TestUnknownErrorIsHidden(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodGet, "/auth/me", "", true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[errorResponse](t, rec).Detail)
}

func TestImportCSV(t *testing.T) {
	f := newFixture(t, Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "topics.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title,description\nTrees,AVL\n,\nHeaps,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/topics/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[importResponse](t, rec)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	require.NotNil(t, f.topics.imported)
	assert.Equal(t, "Trees", f.topics.imported.Rows[0].Title)
}

func TestImportBodyLimit(t *testing.T) {
	f := newFixture(t, Config{BodyLimit: "1K"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "topics.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title,description\n" + strings.Repeat("Trees,AVL\n", 300)))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/topics/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, f.topics.imported)
}

func TestImportRequiresFile(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.do(t, http.MethodPost, "/topics/import", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, Config{RateLimitRPS: 0.001, RateLimitBurst: 2})

	for range 2 {
		assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/auth/login", `{}`, false).Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodPost, "/auth/login", `{}`, false).Code)
}
