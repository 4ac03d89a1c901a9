package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	publicapp "github.com/sngm3741/survey-terminal-services/api/internal/public/application"
	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

type fakeLifecycleRepo struct {
	survey   *domain.Survey
	domain   *domain.Domain
	client   *domain.Client
	updated  *domain.Domain
	previous *domain.Domain
	err      error
}

func (f *fakeLifecycleRepo) DeleteSurvey(context.Context, string) (*domain.Survey, error) {
	return f.survey, f.err
}

func (f *fakeLifecycleRepo) DeleteDomain(context.Context, string) (*domain.Domain, error) {
	return f.domain, f.err
}

func (f *fakeLifecycleRepo) DeleteClient(context.Context, string) (*domain.Client, error) {
	return f.client, f.err
}

func (f *fakeLifecycleRepo) SetActiveSurvey(context.Context, string, string) (*domain.Domain, *domain.Domain, error) {
	return f.updated, f.previous, f.err
}

func TestDeleteSurveyPublishesAfterCommit(t *testing.T) {
	events := publicapp.NewEventBus()
	var published []domain.Survey
	events.OnSurveysDeleted(func(ev publicapp.SurveysDeletedEvent) {
		published = ev.Surveys
	})

	repo := &fakeLifecycleRepo{survey: &domain.Survey{ID: "s1", Title: "満足度調査"}}
	service := NewLifecycleService(repo, events)

	require.NoError(t, service.DeleteSurvey(context.Background(), "s1"))
	require.Len(t, published, 1)
	require.Equal(t, "s1", published[0].ID)
}

func TestDeleteSurveyStorageFailureSuppressesEvent(t *testing.T) {
	events := publicapp.NewEventBus()
	fired := false
	events.OnSurveysDeleted(func(publicapp.SurveysDeletedEvent) { fired = true })

	repo := &fakeLifecycleRepo{err: errors.New("not found")}
	service := NewLifecycleService(repo, events)

	require.Error(t, service.DeleteSurvey(context.Background(), "missing"))
	require.False(t, fired)
}

func TestDeleteDomainPublishesDeletedState(t *testing.T) {
	events := publicapp.NewEventBus()
	var published []domain.Domain
	events.OnDomainsDeleted(func(ev publicapp.DomainsDeletedEvent) {
		published = ev.Domains
	})

	repo := &fakeLifecycleRepo{domain: &domain.Domain{ID: "d1", ActiveSurvey: "s1"}}
	service := NewLifecycleService(repo, events)

	require.NoError(t, service.DeleteDomain(context.Background(), "d1"))
	require.Len(t, published, 1)
	require.Equal(t, "s1", published[0].ActiveSurvey)
}

func TestDeleteClientPublishesDeletedState(t *testing.T) {
	events := publicapp.NewEventBus()
	var published []domain.Client
	events.OnClientsDeleted(func(ev publicapp.ClientsDeletedEvent) {
		published = ev.Clients
	})

	repo := &fakeLifecycleRepo{client: &domain.Client{ID: "t1", Domain: "d1"}}
	service := NewLifecycleService(repo, events)

	require.NoError(t, service.DeleteClient(context.Background(), "t1"))
	require.Len(t, published, 1)
	require.Equal(t, "d1", published[0].Domain)
}

func TestSetActiveSurveyPublishesPairedStates(t *testing.T) {
	events := publicapp.NewEventBus()
	var updated, previous []domain.Domain
	events.OnDomainsUpdated(func(ev publicapp.DomainsUpdatedEvent) {
		updated = ev.Updated
		previous = ev.Previous
	})

	repo := &fakeLifecycleRepo{
		updated:  &domain.Domain{ID: "d1", ActiveSurvey: "s2"},
		previous: &domain.Domain{ID: "d1", ActiveSurvey: "s1"},
	}
	service := NewLifecycleService(repo, events)

	result, err := service.SetActiveSurvey(context.Background(), "d1", "s2")
	require.NoError(t, err)
	require.Equal(t, "s2", result.ActiveSurvey)
	require.Len(t, updated, 1)
	require.Len(t, previous, 1)
	require.Equal(t, "s1", previous[0].ActiveSurvey)
}
