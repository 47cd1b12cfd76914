package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
	"github.com/aliskhannn/brain-recall/internal/service"
)

const testChat int64 = 42

var testNow = time.Date(2025, 3, 10, 15, 42, 7, 0, time.UTC)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

func (b *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, b.sent)
	switch m := b.sent[len(b.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	}
	t.Fatalf("unexpected chattable %T", b.sent[len(b.sent)-1])
	return ""
}

type fakeUsers struct {
	user *entities.User
}

func (f *fakeUsers) UserByTelegramChat(_ context.Context, chatID int64) (*entities.User, error) {
	if f.user == nil || f.user.TelegramChatID == nil || *f.user.TelegramChatID != chatID {
		return nil, repository.ErrUserNotFound
	}
	return f.user, nil
}

type fakeTopics struct {
	due       []*entities.Topic
	completed []uuid.UUID
}

func (f *fakeTopics) Dashboard(context.Context, uuid.UUID, time.Time) (entities.DueSplit, error) {
	return entities.DueSplit{NeedsReview: f.due}, nil
}

func (f *fakeTopics) CompleteReview(_ context.Context, _ uuid.UUID, id uuid.UUID, now time.Time) (*entities.Topic, error) {
	f.completed = append(f.completed, id)
	for _, t := range f.due {
		if t.ID == id {
			t.CompleteReview(now)
			return t, nil
		}
	}
	return nil, repository.ErrTopicNotFound
}

type fakeReviews struct {
	next      entities.NextQuestionState
	afterGen  *entities.NextQuestionState
	generated int
	answers   []entities.OptionKey
}

func (f *fakeReviews) NextQuestion(context.Context, uuid.UUID, uuid.UUID, time.Time) (entities.NextQuestionState, error) {
	if f.generated > 0 && f.afterGen != nil {
		return *f.afterGen, nil
	}
	return f.next, nil
}

func (f *fakeReviews) Answer(_ context.Context, _, _ uuid.UUID, qid uuid.UUID, option entities.OptionKey, _ time.Time) (*service.AnswerOutcome, error) {
	f.answers = append(f.answers, option)
	return &service.AnswerOutcome{
		AnswerResult: entities.AnswerResult{
			QuestionID:     qid,
			SelectedOption: option,
			CorrectOption:  entities.OptionB,
			IsCorrect:      option == entities.OptionB,
		},
		ActiveQuestionsCount: 1,
	}, nil
}

func (f *fakeReviews) Generate(context.Context, uuid.UUID, uuid.UUID, string, time.Time) (*entities.Question, error) {
	f.generated++
	return &entities.Question{}, nil
}

type fakeDigests struct{}

func (fakeDigests) Digest(context.Context, *entities.User, time.Time) (entities.ReminderDigest, error) {
	return entities.ReminderDigest{DueCount: 2, Titles: []string{"Graphs", "Heaps & Tries"}}, nil
}

type fixture struct {
	h       *Handler
	bot     *fakeBot
	topics  *fakeTopics
	reviews *fakeReviews
}

func newFixture(linked bool) *fixture {
	chat := testChat
	users := &fakeUsers{}
	if linked {
		users.user = &entities.User{ID: uuid.New(), TelegramChatID: &chat}
	}

	f := &fixture{bot: &fakeBot{}, topics: &fakeTopics{}, reviews: &fakeReviews{}}
	f.h = NewHandler(f.bot, zap.NewNop(), users, f.topics, f.reviews, fakeDigests{}, NewSessionStorage())
	f.h.now = func() time.Time { return testNow }

	return f
}

func command(name string) tgbotapi.Update {
	text := "/" + name
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: testChat},
		From:     &tgbotapi.User{ID: 1},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: testChat}},
		Data:    data,
	}}
}

func newQuestion(topicID uuid.UUID) *entities.Question {
	return &entities.Question{
		ID:      uuid.New(),
		TopicID: topicID,
		Text:    "Which structure does BFS use?",
		Options: []entities.QuestionOption{
			{Key: entities.OptionA, Text: "Stack"},
			{Key: entities.OptionB, Text: "Queue"},
			{Key: entities.OptionC, Text: "Heap"},
			{Key: entities.OptionD, Text: "Trie"},
		},
		CorrectOption: entities.OptionB,
		Status:        entities.QuestionActive,
	}
}

func TestStartShowsChatID(t *testing.T) {
	f := newFixture(false)

	f.h.handleUpdate(context.Background(), command("start"))

	assert.Contains(t, f.bot.lastText(t), "<code>42</code>")
}

func TestDueRequiresLinkedChat(t *testing.T) {
	f := newFixture(false)

	f.h.handleUpdate(context.Background(), command("due"))

	assert.Equal(t, msgNotLinked, f.bot.lastText(t))
}

func TestDueSendsDigest(t *testing.T) {
	f := newFixture(true)

	f.h.handleUpdate(context.Background(), command("due"))

	text := f.bot.lastText(t)
	assert.Contains(t, text, "<b>2</b> topics")
	assert.Contains(t, text, "Heaps &amp; Tries")
}

func TestReviewNothingDue(t *testing.T) {
	f := newFixture(true)

	f.h.handleUpdate(context.Background(), command("review"))

	assert.Equal(t, msgNothingDue, f.bot.lastText(t))
}

func TestReviewQuizThenComplete(t *testing.T) {
	f := newFixture(true)
	topic := entities.NewTopic(uuid.New(), "Graphs", "BFS explores level by level.", testNow.AddDate(0, 0, -1))
	f.topics.due = []*entities.Topic{topic}
	f.reviews.next = entities.NextQuestionState{ActiveQuestionsCount: 1, Question: newQuestion(topic.ID)}

	f.h.handleUpdate(context.Background(), command("review"))

	msg, ok := f.bot.sent[len(f.bot.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Which structure")
	assert.NotContains(t, msg.Text, "level by level")
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard, 4)

	f.h.handleUpdate(context.Background(), callback("review:complete"))
	assert.Empty(t, f.topics.completed)

	f.h.handleUpdate(context.Background(), callback("review:answer:A"))
	assert.Equal(t, []entities.OptionKey{entities.OptionA}, f.reviews.answers)
	text := f.bot.lastText(t)
	assert.Contains(t, text, "Not quite")
	assert.Contains(t, text, "level by level")

	f.h.handleUpdate(context.Background(), callback("review:answer:B"))
	assert.Len(t, f.reviews.answers, 1)

	f.h.handleUpdate(context.Background(), callback("review:complete"))
	assert.Equal(t, []uuid.UUID{topic.ID}, f.topics.completed)
	assert.Contains(t, f.bot.lastText(t), "Next review on Mar 17")
	assert.Nil(t, f.h.sessions.Get(testChat))
}

func TestReviewBlockedThenGenerate(t *testing.T) {
	f := newFixture(true)
	topic := entities.NewTopic(uuid.New(), "Heaps", "", testNow.AddDate(0, 0, -1))
	f.topics.due = []*entities.Topic{topic}
	f.reviews.afterGen = &entities.NextQuestionState{ActiveQuestionsCount: 1, Question: newQuestion(topic.ID)}

	f.h.handleUpdate(context.Background(), command("review"))
	assert.Contains(t, f.bot.lastText(t), "no questions yet")
	assert.Equal(t, entities.PhaseBlocked, f.h.sessions.Get(testChat).session.Phase())

	f.h.handleUpdate(context.Background(), callback("review:generate"))

	assert.Equal(t, 1, f.reviews.generated)
	assert.Equal(t, entities.PhaseUnanswered, f.h.sessions.Get(testChat).session.Phase())
	assert.Contains(t, f.bot.lastText(t), "Which structure")
}

func TestCallbackWithoutSession(t *testing.T) {
	f := newFixture(true)

	f.h.handleUpdate(context.Background(), callback("review:answer:A"))

	assert.Empty(t, f.bot.sent)
	require.Len(t, f.bot.requests, 1)
	cfg, ok := f.bot.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, msgNoSession, cfg.Text)
}

func TestFormatDigest(t *testing.T) {
	assert.Equal(t, msgNothingDue, formatDigest(entities.ReminderDigest{}))

	text := formatDigest(entities.ReminderDigest{DueCount: 7, Titles: []string{"a", "b"}})
	assert.Contains(t, text, "<b>7</b> topics")
	assert.Contains(t, text, "… and 5 more")

	assert.Contains(t, formatDigest(entities.ReminderDigest{DueCount: 1, Titles: []string{"a"}}), "topic to review")
}

func TestNotifierSendsDigest(t *testing.T) {
	bot := &fakeBot{}

	err := NewNotifier(bot).SendDigest(testChat, entities.ReminderDigest{DueCount: 1, Titles: []string{"Graphs"}})

	require.NoError(t, err)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, testChat, msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
}

func TestCallbackDataRoundTrip(t *testing.T) {
	cd := decodeCallback(buildAnswerCallback("C"))

	assert.Equal(t, actionReview, cd.Action)
	assert.Equal(t, reviewAnswer, cd.param(0))
	assert.Equal(t, "C", cd.param(1))
	assert.Equal(t, "", cd.param(2))
}
