package application

import (
	"sync"
	"time"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// answerCache は (survey, domain, client) 三層キーで未完了回答を保持する
// インメモリストア。各クライアント枝は単発の失効タイマーを一つだけ持ち、
// 枝の削除は空になった親を連鎖的に畳む。すべての複合操作は mu の下で行い、
// ストレージ I/O をロック区間に持ち込まないこと。
type answerCache struct {
	mu       sync.Mutex
	lifetime time.Duration
	surveys  map[string]map[string]map[string]*clientBranch

	events *EventBus

	// onSurveyRemoved cancels the sibling question-cache entry when the last
	// branch of a survey disappears.
	onSurveyRemoved func(surveyID string)
}

type clientBranch struct {
	answers  []domain.Answer
	timer    *time.Timer
	timerGen int
}

func newAnswerCache(lifetime time.Duration, events *EventBus, onSurveyRemoved func(string)) *answerCache {
	return &answerCache{
		lifetime:        lifetime,
		surveys:         make(map[string]map[string]map[string]*clientBranch),
		events:          events,
		onSurveyRemoved: onSurveyRemoved,
	}
}

// EnsureBranch creates the branch for the triple if absent, arming a fresh
// expiry timer. Idempotent.
func (c *answerCache) EnsureBranch(surveyID, domainID, clientID string) {
	c.mu.Lock()
	c.ensureBranchLocked(surveyID, domainID, clientID)
	c.mu.Unlock()
}

func (c *answerCache) ensureBranchLocked(surveyID, domainID, clientID string) *clientBranch {
	domains, ok := c.surveys[surveyID]
	if !ok {
		domains = make(map[string]map[string]*clientBranch)
		c.surveys[surveyID] = domains
	}
	clients, ok := domains[domainID]
	if !ok {
		clients = make(map[string]*clientBranch)
		domains[domainID] = clients
	}
	branch, ok := clients[clientID]
	if !ok {
		branch = &clientBranch{}
		clients[clientID] = branch
		c.scheduleExpiryLocked(branch, surveyID, domainID, clientID)
	}
	return branch
}

func (c *answerCache) branchLocked(surveyID, domainID, clientID string) *clientBranch {
	return c.surveys[surveyID][domainID][clientID]
}

// scheduleExpiryLocked cancels any pending timer and arms a new one, so a
// branch never has two live timers.
func (c *answerCache) scheduleExpiryLocked(branch *clientBranch, surveyID, domainID, clientID string) {
	if branch.timer != nil {
		branch.timer.Stop()
	}
	branch.timerGen++
	gen := branch.timerGen
	branch.timer = time.AfterFunc(c.lifetime, func() {
		c.expire(surveyID, domainID, clientID, gen)
	})
}

func (c *answerCache) expire(surveyID, domainID, clientID string, gen int) {
	c.mu.Lock()
	branch := c.branchLocked(surveyID, domainID, clientID)
	if branch == nil || branch.timerGen != gen {
		c.mu.Unlock()
		return
	}
	pruned := c.removeClientLocked(surveyID, domainID, clientID)
	c.mu.Unlock()

	c.publishPruned(pruned)
	c.events.PublishAnswerExpired(AnswerExpiredEvent{DomainID: domainID, ClientID: clientID})
}

// RemoveClient deletes one client branch; missing branches are a no-op.
func (c *answerCache) RemoveClient(surveyID, domainID, clientID string) {
	c.mu.Lock()
	pruned := c.removeClientLocked(surveyID, domainID, clientID)
	c.mu.Unlock()
	c.publishPruned(pruned)
}

// RemoveDomain deletes a whole domain subtree; missing subtrees are a no-op.
func (c *answerCache) RemoveDomain(surveyID, domainID string) {
	c.mu.Lock()
	pruned := c.removeDomainLocked(surveyID, domainID)
	c.mu.Unlock()
	c.publishPruned(pruned)
}

// RemoveSurvey deletes a whole survey subtree, cancelling every timer under
// it, and always drops the sibling question-cache entry.
func (c *answerCache) RemoveSurvey(surveyID string) {
	c.mu.Lock()
	pruned := c.removeSurveyLocked(surveyID)
	c.mu.Unlock()
	c.publishPruned(pruned)
}

// removeClientLocked removes one branch and cascades empty-parent cleanup.
// Returns the pruned client ids for publishing after unlock.
func (c *answerCache) removeClientLocked(surveyID, domainID, clientID string) []string {
	clients := c.surveys[surveyID][domainID]
	branch, ok := clients[clientID]
	if !ok {
		return nil
	}
	if branch.timer != nil {
		branch.timer.Stop()
	}
	branch.timerGen++
	delete(clients, clientID)

	pruned := []string{clientID}
	if len(clients) == 0 {
		pruned = append(pruned, c.removeDomainLocked(surveyID, domainID)...)
	}
	return pruned
}

func (c *answerCache) removeDomainLocked(surveyID, domainID string) []string {
	domains, ok := c.surveys[surveyID]
	if !ok {
		return nil
	}
	clients, ok := domains[domainID]
	if !ok {
		return nil
	}

	pruned := make([]string, 0, len(clients))
	for clientID, branch := range clients {
		if branch.timer != nil {
			branch.timer.Stop()
		}
		branch.timerGen++
		pruned = append(pruned, clientID)
	}
	delete(domains, domainID)

	if len(domains) == 0 {
		pruned = append(pruned, c.removeSurveyLocked(surveyID)...)
	}
	return pruned
}

func (c *answerCache) removeSurveyLocked(surveyID string) []string {
	var pruned []string
	for _, clients := range c.surveys[surveyID] {
		for clientID, branch := range clients {
			if branch.timer != nil {
				branch.timer.Stop()
			}
			branch.timerGen++
			pruned = append(pruned, clientID)
		}
	}
	delete(c.surveys, surveyID)

	if c.onSurveyRemoved != nil {
		c.onSurveyRemoved(surveyID)
	}
	return pruned
}

func (c *answerCache) publishPruned(clientIDs []string) {
	for _, clientID := range clientIDs {
		c.events.PublishClientCachePruned(ClientCachePrunedEvent{ClientID: clientID})
	}
}
