package application

import (
	"context"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// LifecycleRepository exposes the destructive admin operations on surveys,
// domains and clients. Each call returns the affected entity states so the
// service can announce them on the event bus.
type LifecycleRepository interface {
	DeleteSurvey(ctx context.Context, id string) (*domain.Survey, error)
	DeleteDomain(ctx context.Context, id string) (*domain.Domain, error)
	DeleteClient(ctx context.Context, id string) (*domain.Client, error)
	SetActiveSurvey(ctx context.Context, domainID, surveyID string) (updated, previous *domain.Domain, err error)
}

// LifecycleService drives entity removal and active-survey reassignment,
// announcing every change so the answer engine can prune its caches.
type LifecycleService interface {
	DeleteSurvey(ctx context.Context, id string) error
	DeleteDomain(ctx context.Context, id string) error
	DeleteClient(ctx context.Context, id string) error
	SetActiveSurvey(ctx context.Context, domainID, surveyID string) (*domain.Domain, error)
}
