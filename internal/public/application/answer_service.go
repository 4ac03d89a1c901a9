package application

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// AnswerService は回答の検証・集約・投票確定を担うアプリケーションサービス。
// 質問スナップショットと未完了回答の両キャッシュを所有し、回答が出揃った
// 時点で一度だけ投票を永続化する。HTTP 層からは CreateAnswer /
// RemoveAnswerForQuestion / CreateCacheEntryForClient を通じて利用される。
type AnswerService struct {
	logger    *log.Logger
	questions *questionCache
	cache     *answerCache
	versions  VersionRepository
	votes     VoteRepository
	domains   DomainRepository
	events    *EventBus
}

// AnswerServiceConfig defines the dependencies of AnswerService.
type AnswerServiceConfig struct {
	Logger            *log.Logger
	Questions         QuestionRepository
	Versions          VersionRepository
	Votes             VoteRepository
	Domains           DomainRepository
	Events            *EventBus
	ClientCacheTime   time.Duration
	QuestionCacheTime time.Duration
}

// NewAnswerService wires the caches and subscribes the lifecycle handlers on
// the event bus.
func NewAnswerService(cfg AnswerServiceConfig) *AnswerService {
	questions := newQuestionCache(cfg.Questions, cfg.QuestionCacheTime)
	s := &AnswerService{
		logger:    cfg.Logger,
		questions: questions,
		versions:  cfg.Versions,
		votes:     cfg.Votes,
		domains:   cfg.Domains,
		events:    cfg.Events,
	}
	s.cache = newAnswerCache(cfg.ClientCacheTime, cfg.Events, questions.Drop)
	s.registerLifecycleHandlers()
	return s
}

// CreateCacheEntryForClient pre-creates the branch for a terminal that opened
// a survey without answering yet. Idempotent.
func (s *AnswerService) CreateCacheEntryForClient(surveyID, domainID, clientID string) {
	s.cache.EnsureBranch(surveyID, domainID, clientID)
}

// CreateAnswer validates and stores one answer submission. It reports whether
// the submission completed the response and created a vote.
func (s *AnswerService) CreateAnswer(ctx context.Context, scope domain.ClientContext, input domain.AnswerInput) (domain.Answer, bool, error) {
	questions, questionIDs, err := s.questions.Get(ctx, scope.Survey.ID)
	if err != nil {
		return domain.Answer{}, false, err
	}

	index := slices.Index(questionIDs, input.Question)
	if index < 0 {
		return domain.Answer{}, false, domain.ErrAnswerInvalid
	}

	answer, err := enhanceAnswer(questions[index], input)
	if err != nil {
		return domain.Answer{}, false, err
	}

	voteCreated, err := s.persistAnswer(ctx, scope, answer, questionIDs)
	if err != nil {
		return domain.Answer{}, false, err
	}
	return answer, voteCreated, nil
}

// persistAnswer runs the cache algorithm: single-question fast path, replace
// in place, complete-and-persist, or append. The cache lock is never held
// across vote persistence.
func (s *AnswerService) persistAnswer(ctx context.Context, scope domain.ClientContext, answer domain.Answer, questionIDs []string) (bool, error) {
	surveyID := scope.Survey.ID
	domainID := scope.Domain.ID
	clientID := scope.Client.ID

	if len(questionIDs) == 1 {
		if err := s.persistVote(ctx, scope, []domain.Answer{answer}); err != nil {
			return false, err
		}
		return true, nil
	}

	c := s.cache
	c.mu.Lock()
	branch := c.ensureBranchLocked(surveyID, domainID, clientID)

	if index := answerIndex(branch.answers, answer.Question); index >= 0 {
		// Replacement keeps the running expiry timer on purpose: replaying the
		// same answer must not keep an idle branch alive indefinitely.
		previous := branch.answers[index]
		branch.answers[index] = answer
		c.mu.Unlock()

		s.events.PublishAnswerUpdated(AnswerUpdatedEvent{
			Answer:   answer,
			Previous: previous,
			DomainID: domainID,
			ClientID: clientID,
		})
		return false, nil
	}

	if len(branch.answers)+1 == len(questionIDs) {
		answers := append(slices.Clone(branch.answers), answer)
		c.mu.Unlock()

		// On failure the branch stays in its pre-completion state, so the
		// client retries by resubmitting the same completing answer.
		if err := s.persistVote(ctx, scope, answers); err != nil {
			return false, err
		}

		// The branch may have expired or been invalidated while unlocked;
		// RemoveClient treats a vanished branch as a no-op.
		c.RemoveClient(surveyID, domainID, clientID)
		s.events.PublishAnswerInserted(AnswerInsertedEvent{
			Answer:   answer,
			DomainID: domainID,
			ClientID: clientID,
		})
		return true, nil
	}

	branch.answers = append(branch.answers, answer)
	c.scheduleExpiryLocked(branch, surveyID, domainID, clientID)
	c.mu.Unlock()

	s.events.PublishAnswerInserted(AnswerInsertedEvent{
		Answer:   answer,
		DomainID: domainID,
		ClientID: clientID,
	})
	return false, nil
}

// persistVote assembles and writes the vote: latest version id, answers in
// canonical question order, one insert. Failures at either step surface as
// the uniform retryable domain.ErrVoteNotPersisted.
func (s *AnswerService) persistVote(ctx context.Context, scope domain.ClientContext, answers []domain.Answer) error {
	versionID, err := s.versions.LatestBySurvey(ctx, scope.Survey.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVoteNotPersisted, err)
	}

	vote := &domain.Vote{
		Answers: orderAnswers(scope.Survey.QuestionOrder, answers),
		Version: versionID,
		Survey:  scope.Survey.ID,
		Domain:  scope.Domain.ID,
		Client:  scope.Client.ID,
	}

	if err := s.votes.Insert(ctx, vote); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVoteNotPersisted, err)
	}
	return nil
}

// RemoveAnswerForQuestion converts an already-cached answer back into an
// explicit skip, keeping its slot, type and creation date. A missing branch
// or answer is a successful no-op; the branch's expiry timer is reset either
// way.
func (s *AnswerService) RemoveAnswerForQuestion(questionID string, scope domain.ClientContext) bool {
	surveyID := scope.Survey.ID
	domainID := scope.Domain.ID
	clientID := scope.Client.ID

	c := s.cache
	c.mu.Lock()
	branch := c.branchLocked(surveyID, domainID, clientID)
	if branch == nil {
		c.mu.Unlock()
		return true
	}

	c.scheduleExpiryLocked(branch, surveyID, domainID, clientID)

	if index := answerIndex(branch.answers, questionID); index >= 0 {
		branch.answers[index] = branch.answers[index].Cleared()
	}
	c.mu.Unlock()
	return true
}

// orderAnswers returns the answers sorted by their question's position in
// questionOrder. Answers to questions outside the order are omitted.
func orderAnswers(questionOrder []string, answers []domain.Answer) []domain.Answer {
	ordered := make([]domain.Answer, 0, len(answers))
	for _, questionID := range questionOrder {
		if index := answerIndex(answers, questionID); index >= 0 {
			ordered = append(ordered, answers[index])
		}
	}
	return ordered
}

func answerIndex(answers []domain.Answer, questionID string) int {
	return slices.IndexFunc(answers, func(a domain.Answer) bool {
		return a.Question == questionID
	})
}
