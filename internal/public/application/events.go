package application

import (
	"sync"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// AnswerInsertedEvent fires when a new answer entered a client branch or
// completed a vote.
type AnswerInsertedEvent struct {
	Answer   domain.Answer
	DomainID string
	ClientID string
}

// AnswerUpdatedEvent fires when an answer replaced an earlier one in place.
type AnswerUpdatedEvent struct {
	Answer   domain.Answer
	Previous domain.Answer
	DomainID string
	ClientID string
}

// AnswerExpiredEvent fires when an idle client branch was dropped by its
// expiry timer. This is the only path that silently discards answers.
type AnswerExpiredEvent struct {
	DomainID string
	ClientID string
}

// ClientCachePrunedEvent fires whenever a client branch leaves the cache,
// regardless of the reason (completion, expiry, lifecycle cleanup).
type ClientCachePrunedEvent struct {
	ClientID string
}

// SurveysDeletedEvent announces surveys removed from durable storage.
type SurveysDeletedEvent struct {
	Surveys []domain.Survey
}

// DomainsUpdatedEvent announces domain updates, paired with the previous
// state so listeners can react to an active-survey change.
type DomainsUpdatedEvent struct {
	Updated  []domain.Domain
	Previous []domain.Domain
}

// DomainsDeletedEvent announces domains removed from durable storage.
type DomainsDeletedEvent struct {
	Domains []domain.Domain
}

// ClientsDeletedEvent announces clients removed from durable storage.
type ClientsDeletedEvent struct {
	Clients []domain.Client
}

// EventBus は回答・ライフサイクル両系統のイベントを型付きで配送する
// プロセス内オブザーバ。ハンドラは購読順に同期実行される。
type EventBus struct {
	mu sync.RWMutex

	answerInserted    []func(AnswerInsertedEvent)
	answerUpdated     []func(AnswerUpdatedEvent)
	answerExpired     []func(AnswerExpiredEvent)
	clientCachePruned []func(ClientCachePrunedEvent)
	surveysDeleted    []func(SurveysDeletedEvent)
	domainsUpdated    []func(DomainsUpdatedEvent)
	domainsDeleted    []func(DomainsDeletedEvent)
	clientsDeleted    []func(ClientsDeletedEvent)
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) OnAnswerInserted(fn func(AnswerInsertedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answerInserted = append(b.answerInserted, fn)
}

func (b *EventBus) OnAnswerUpdated(fn func(AnswerUpdatedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answerUpdated = append(b.answerUpdated, fn)
}

func (b *EventBus) OnAnswerExpired(fn func(AnswerExpiredEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answerExpired = append(b.answerExpired, fn)
}

func (b *EventBus) OnClientCachePruned(fn func(ClientCachePrunedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientCachePruned = append(b.clientCachePruned, fn)
}

func (b *EventBus) OnSurveysDeleted(fn func(SurveysDeletedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surveysDeleted = append(b.surveysDeleted, fn)
}

func (b *EventBus) OnDomainsUpdated(fn func(DomainsUpdatedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.domainsUpdated = append(b.domainsUpdated, fn)
}

func (b *EventBus) OnDomainsDeleted(fn func(DomainsDeletedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.domainsDeleted = append(b.domainsDeleted, fn)
}

func (b *EventBus) OnClientsDeleted(fn func(ClientsDeletedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientsDeleted = append(b.clientsDeleted, fn)
}

func (b *EventBus) PublishAnswerInserted(ev AnswerInsertedEvent) {
	b.mu.RLock()
	handlers := b.answerInserted
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishAnswerUpdated(ev AnswerUpdatedEvent) {
	b.mu.RLock()
	handlers := b.answerUpdated
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishAnswerExpired(ev AnswerExpiredEvent) {
	b.mu.RLock()
	handlers := b.answerExpired
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishClientCachePruned(ev ClientCachePrunedEvent) {
	b.mu.RLock()
	handlers := b.clientCachePruned
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishSurveysDeleted(ev SurveysDeletedEvent) {
	b.mu.RLock()
	handlers := b.surveysDeleted
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishDomainsUpdated(ev DomainsUpdatedEvent) {
	b.mu.RLock()
	handlers := b.domainsUpdated
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishDomainsDeleted(ev DomainsDeletedEvent) {
	b.mu.RLock()
	handlers := b.domainsDeleted
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *EventBus) PublishClientsDeleted(ev ClientsDeletedEvent) {
	b.mu.RLock()
	handlers := b.clientsDeleted
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}
