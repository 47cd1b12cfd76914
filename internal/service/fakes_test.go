package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entities.User
}

func newFakeUsers(users ...*entities.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) find(match func(*entities.User) bool) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	return f.find(func(u *entities.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByTelegramChatID(_ context.Context, chatID int64) (*entities.User, error) {
	return f.find(func(u *entities.User) bool { return u.TelegramChatID != nil && *u.TelegramChatID == chatID })
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) ListWithTelegram(_ context.Context, limit, offset int) ([]*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var linked []*entities.User
	for _, u := range f.users {
		if u.TelegramChatID != nil {
			linked = append(linked, u)
		}
	}
	slices.SortFunc(linked, func(a, b *entities.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if offset >= len(linked) {
		return nil, nil
	}
	return linked[offset:min(offset+limit, len(linked))], nil
}

type fakeTopics struct {
	mu     sync.Mutex
	topics map[uuid.UUID]*entities.Topic
}

func newFakeTopics(topics ...*entities.Topic) *fakeTopics {
	f := &fakeTopics{topics: make(map[uuid.UUID]*entities.Topic)}
	for _, t := range topics {
		f.topics[t.ID] = t
	}
	return f
}

func cloneTopic(t *entities.Topic) *entities.Topic {
	cp := *t
	cp.CompletedCycles = slices.Clone(t.CompletedCycles)
	return &cp
}

func (f *fakeTopics) ListByUser(_ context.Context, userID uuid.UUID) ([]*entities.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Topic
	for _, t := range f.topics {
		if t.UserID == userID {
			out = append(out, cloneTopic(t))
		}
	}
	slices.SortFunc(out, func(a, b *entities.Topic) int { return a.NextReview.Compare(b.NextReview) })
	return out, nil
}

func (f *fakeTopics) GetByID(_ context.Context, userID, id uuid.UUID) (*entities.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.topics[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTopicNotFound
	}
	return cloneTopic(t), nil
}

func (f *fakeTopics) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*entities.Topic, error) {
	return f.GetByID(ctx, userID, id)
}

func (f *fakeTopics) Create(_ context.Context, t *entities.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics[t.ID] = cloneTopic(t)
	return nil
}

func (f *fakeTopics) UpdateContent(_ context.Context, t *entities.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.topics[t.ID]
	if !ok || stored.UserID != t.UserID {
		return repository.ErrTopicNotFound
	}
	stored.Title, stored.Description = t.Title, t.Description
	return nil
}

func (f *fakeTopics) SaveReview(_ context.Context, t *entities.Topic, review entities.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.topics[t.ID]
	if !ok || stored.UserID != t.UserID {
		return repository.ErrTopicNotFound
	}
	stored.CurrentCycle = t.CurrentCycle
	stored.NextReview = t.NextReview
	stored.CompletedCycles = append(stored.CompletedCycles, review)
	return nil
}

func (f *fakeTopics) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.topics[id]
	if !ok || t.UserID != userID {
		return repository.ErrTopicNotFound
	}
	delete(f.topics, id)
	return nil
}

type fakeQuestions struct {
	mu        sync.Mutex
	questions []*entities.Question
	topics    *fakeTopics
}

func (f *fakeQuestions) Create(_ context.Context, q *entities.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *q
	f.questions = append(f.questions, &cp)
	return nil
}

func (f *fakeQuestions) GetByID(_ context.Context, topicID, id uuid.UUID) (*entities.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.questions {
		if q.ID == id && q.TopicID == topicID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, repository.ErrQuestionNotFound
}

func (f *fakeQuestions) ListActive(_ context.Context, topicID uuid.UUID) ([]*entities.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Question
	for _, q := range f.questions {
		if q.TopicID == topicID && q.IsActive() {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeQuestions) ListBySource(_ context.Context, userID uuid.UUID, source entities.QuestionSource) ([]*entities.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Question
	for _, q := range f.questions {
		t, ok := f.topics.topics[q.TopicID]
		if !ok || t.UserID != userID || q.Source != source {
			continue
		}
		cp := *q
		cp.TopicTitle = t.Title
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entities.Question) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f *fakeQuestions) UpdateStatus(_ context.Context, topicID, id uuid.UUID, status entities.QuestionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.questions {
		if q.ID == id && q.TopicID == topicID {
			q.Status = status
			return nil
		}
	}
	return repository.ErrQuestionNotFound
}

type fakeAttempts struct {
	mu       sync.Mutex
	attempts []*entities.QuestionAttempt
}

func (f *fakeAttempts) Create(_ context.Context, a *entities.QuestionAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeAttempts) any(match func(*entities.QuestionAttempt) bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.ContainsFunc(f.attempts, match)
}

func (f *fakeAttempts) AnsweredTopicSince(_ context.Context, userID, topicID uuid.UUID, since time.Time) (bool, error) {
	return f.any(func(a *entities.QuestionAttempt) bool {
		return a.UserID == userID && a.TopicID == topicID && !a.CreatedAt.Before(since)
	}), nil
}

func (f *fakeAttempts) AnsweredQuestionSince(_ context.Context, userID, questionID uuid.UUID, since time.Time) (bool, error) {
	return f.any(func(a *entities.QuestionAttempt) bool {
		return a.UserID == userID && a.QuestionID == questionID && !a.CreatedAt.Before(since)
	}), nil
}

func (f *fakeAttempts) CountByQuestion(_ context.Context, userID, topicID uuid.UUID) (map[uuid.UUID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[uuid.UUID]int)
	for _, a := range f.attempts {
		if a.UserID == userID && a.TopicID == topicID {
			counts[a.QuestionID]++
		}
	}
	return counts, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID uuid.UUID, _ time.Time) (string, error) {
	return "token-" + userID.String(), nil
}

type fakeGenerator struct {
	draft *entities.GeneratedQuestion
	err   error
	title string
	hint  string
}

func (f *fakeGenerator) Generate(_ context.Context, title, hint string) (*entities.GeneratedQuestion, error) {
	f.title, f.hint = title, hint
	return f.draft, f.err
}

type sentDigest struct {
	chatID int64
	digest entities.ReminderDigest
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentDigest
	err  error
}

func (f *fakeNotifier) SendDigest(chatID int64, digest entities.ReminderDigest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentDigest{chatID: chatID, digest: digest})
	return nil
}
