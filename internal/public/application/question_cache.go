package application

import (
	"context"
	"sync"
	"time"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// questionCache はアンケートごとの質問スナップショットを保持する
// スライディング TTL キャッシュ。アクセスのたびに有効期限を延長し、
// 失効後の次回アクセスでストレージから再読み込みする。
type questionCache struct {
	repo QuestionRepository
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]*questionCacheEntry
}

type questionCacheEntry struct {
	questionIDs []string
	questions   []domain.Question
	timer       *time.Timer
	timerGen    int
}

func newQuestionCache(repo QuestionRepository, ttl time.Duration) *questionCache {
	return &questionCache{
		repo:    repo,
		ttl:     ttl,
		entries: make(map[string]*questionCacheEntry),
	}
}

// Get returns the cached question snapshot for the survey, loading it from
// storage on a miss. A survey without questions yields domain.ErrNoQuestions;
// load failures after expiry propagate as fetch failures.
func (c *questionCache) Get(ctx context.Context, surveyID string) ([]domain.Question, []string, error) {
	c.mu.Lock()
	if entry, ok := c.entries[surveyID]; ok {
		c.touchLocked(surveyID, entry)
		c.mu.Unlock()
		return entry.questions, entry.questionIDs, nil
	}
	c.mu.Unlock()

	// Storage read happens outside the lock; concurrent submissions for the
	// same survey may race the load and the first writer wins.
	questions, err := c.repo.FindBySurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, domain.ErrNoQuestions
	}

	questionIDs := make([]string, 0, len(questions))
	for _, question := range questions {
		questionIDs = append(questionIDs, question.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[surveyID]; ok {
		c.touchLocked(surveyID, entry)
		return entry.questions, entry.questionIDs, nil
	}

	entry := &questionCacheEntry{questionIDs: questionIDs, questions: questions}
	c.entries[surveyID] = entry
	c.touchLocked(surveyID, entry)
	return questions, questionIDs, nil
}

// Drop removes the survey's snapshot and cancels its timer. Missing entries
// are a no-op.
func (c *questionCache) Drop(surveyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(surveyID)
}

func (c *questionCache) dropLocked(surveyID string) {
	entry, ok := c.entries[surveyID]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.timerGen++
	delete(c.entries, surveyID)
}

// touchLocked restarts the entry's expiry timer. The generation counter keeps
// a timer that already fired from evicting a rescheduled entry.
func (c *questionCache) touchLocked(surveyID string, entry *questionCacheEntry) {
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.timerGen++
	gen := entry.timerGen
	entry.timer = time.AfterFunc(c.ttl, func() {
		c.expire(surveyID, gen)
	})
}

func (c *questionCache) expire(surveyID string, gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[surveyID]
	if !ok || entry.timerGen != gen {
		return
	}
	delete(c.entries, surveyID)
}
