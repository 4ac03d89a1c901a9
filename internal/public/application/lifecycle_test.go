package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

func seedBranch(t *testing.T, fx *serviceFixture, scope domain.ClientContext) {
	t.Helper()
	_, _, err := fx.service.CreateAnswer(context.Background(), scope, domain.AnswerInput{
		Question: "q1",
		Liked:    ptr(true),
		LikedSet: true,
	})
	require.NoError(t, err)
}

func TestSurveysDeletedPrunesCaches(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	seedBranch(t, fx, scope)

	fx.events.PublishSurveysDeleted(SurveysDeletedEvent{
		Surveys: []domain.Survey{{ID: "s1"}},
	})

	require.Contains(t, fx.recorder.prunedClients(), "t1")
	fx.service.cache.mu.Lock()
	require.Empty(t, fx.service.cache.surveys)
	fx.service.cache.mu.Unlock()

	// 質問スナップショットも破棄され、次の回答で再読み込みされる。
	loads := fx.questions.calls
	seedBranch(t, fx, scope)
	require.Equal(t, loads+1, fx.questions.calls)
}

func TestDomainsUpdatedPrunesOldActiveSurvey(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	seedBranch(t, fx, scope)

	fx.events.PublishDomainsUpdated(DomainsUpdatedEvent{
		Updated:  []domain.Domain{{ID: "d1", ActiveSurvey: "s2"}},
		Previous: []domain.Domain{{ID: "d1", ActiveSurvey: "s1"}},
	})

	require.Contains(t, fx.recorder.prunedClients(), "t1")
	fx.service.cache.mu.Lock()
	require.Empty(t, fx.service.cache.surveys)
	fx.service.cache.mu.Unlock()
}

func TestDomainsUpdatedWithSameSurveyKeepsBranches(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	seedBranch(t, fx, scope)

	// 名前だけの更新では掃除しない。
	fx.events.PublishDomainsUpdated(DomainsUpdatedEvent{
		Updated:  []domain.Domain{{ID: "d1", Name: "renamed", ActiveSurvey: "s1"}},
		Previous: []domain.Domain{{ID: "d1", ActiveSurvey: "s1"}},
	})

	require.Empty(t, fx.recorder.prunedClients())
	fx.service.cache.mu.Lock()
	require.NotNil(t, fx.service.cache.branchLocked("s1", "d1", "t1"))
	fx.service.cache.mu.Unlock()
}

func TestDomainsDeletedPrunesSubtree(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	seedBranch(t, fx, scope)

	fx.events.PublishDomainsDeleted(DomainsDeletedEvent{
		Domains: []domain.Domain{{ID: "d1", ActiveSurvey: "s1"}},
	})

	require.Contains(t, fx.recorder.prunedClients(), "t1")
	fx.service.cache.mu.Lock()
	require.Nil(t, fx.service.cache.branchLocked("s1", "d1", "t1"))
	fx.service.cache.mu.Unlock()
}

func TestClientsDeletedResolvesOwningDomain(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	fx.domains.domains["d1"] = &domain.Domain{ID: "d1", ActiveSurvey: "s1"}
	seedBranch(t, fx, scope)

	fx.events.PublishClientsDeleted(ClientsDeletedEvent{
		Clients: []domain.Client{{ID: "t1", Domain: "d1"}},
	})

	require.Contains(t, fx.recorder.prunedClients(), "t1")
	fx.service.cache.mu.Lock()
	require.Nil(t, fx.service.cache.branchLocked("s1", "d1", "t1"))
	fx.service.cache.mu.Unlock()
}

func TestClientsDeletedLookupFailureKeepsBranch(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	fx.domains.err = errors.New("mongo down")
	seedBranch(t, fx, scope)

	fx.events.PublishClientsDeleted(ClientsDeletedEvent{
		Clients: []domain.Client{{ID: "t1", Domain: "d1"}},
	})

	// 所属ドメインを解決できないときは掃除を見送る。
	fx.service.cache.mu.Lock()
	require.NotNil(t, fx.service.cache.branchLocked("s1", "d1", "t1"))
	fx.service.cache.mu.Unlock()
}

func TestClientsDeletedWithoutDomainIsIgnored(t *testing.T) {
	scope, questions := threeQuestionSurvey()
	fx := newServiceFixture(questions)
	seedBranch(t, fx, scope)

	fx.events.PublishClientsDeleted(ClientsDeletedEvent{
		Clients: []domain.Client{{ID: "t1"}},
	})

	fx.service.cache.mu.Lock()
	require.NotNil(t, fx.service.cache.branchLocked("s1", "d1", "t1"))
	fx.service.cache.mu.Unlock()
}
