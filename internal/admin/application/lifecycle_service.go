package application

import (
	"context"

	publicapp "github.com/sngm3741/survey-terminal-services/api/internal/public/application"
	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// NewLifecycleService constructs the admin lifecycle use-cases.
func NewLifecycleService(repo LifecycleRepository, events *publicapp.EventBus) LifecycleService {
	return &lifecycleService{repo: repo, events: events}
}

type lifecycleService struct {
	repo   LifecycleRepository
	events *publicapp.EventBus
}

// DeleteSurvey removes the survey with its questions and versions, then
// announces the deletion. The storage write commits before the event fires,
// so cache pruning never precedes the durable change.
func (s *lifecycleService) DeleteSurvey(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteSurvey(ctx, id)
	if err != nil {
		return err
	}
	s.events.PublishSurveysDeleted(publicapp.SurveysDeletedEvent{Surveys: []domain.Survey{*deleted}})
	return nil
}

// DeleteDomain removes one domain and announces it.
func (s *lifecycleService) DeleteDomain(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteDomain(ctx, id)
	if err != nil {
		return err
	}
	s.events.PublishDomainsDeleted(publicapp.DomainsDeletedEvent{Domains: []domain.Domain{*deleted}})
	return nil
}

// DeleteClient removes one client and announces it.
func (s *lifecycleService) DeleteClient(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteClient(ctx, id)
	if err != nil {
		return err
	}
	s.events.PublishClientsDeleted(publicapp.ClientsDeletedEvent{Clients: []domain.Client{*deleted}})
	return nil
}

// SetActiveSurvey reassigns a domain's active survey and announces the update
// paired with the previous state.
func (s *lifecycleService) SetActiveSurvey(ctx context.Context, domainID, surveyID string) (*domain.Domain, error) {
	updated, previous, err := s.repo.SetActiveSurvey(ctx, domainID, surveyID)
	if err != nil {
		return nil, err
	}
	s.events.PublishDomainsUpdated(publicapp.DomainsUpdatedEvent{
		Updated:  []domain.Domain{*updated},
		Previous: []domain.Domain{*previous},
	})
	return updated, nil
}
