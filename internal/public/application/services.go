package application

import (
	"context"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// QuestionRepository abstracts read access to the questions of a survey.
// QuestionRepository はアンケート質問を読み取るためのポート。結果は定義順で返す。
type QuestionRepository interface {
	FindBySurvey(ctx context.Context, surveyID string) ([]domain.Question, error)
}

// VersionRepository resolves the most recent version of a survey.
type VersionRepository interface {
	LatestBySurvey(ctx context.Context, surveyID string) (string, error)
}

// VoteRepository persists completed votes.
type VoteRepository interface {
	Insert(ctx context.Context, vote *domain.Vote) error
}

// SurveyRepository provides survey lookups for scope resolution.
type SurveyRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Survey, error)
}

// DomainRepository provides domain lookups for scope resolution and
// lifecycle cleanup.
type DomainRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Domain, error)
}

// ClientRepository provides client lookups for scope resolution.
type ClientRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Client, error)
}
