package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// AdminRepository は管理系の破壊的操作(削除・アクティブアンケート変更)を
// MongoDB 上で実行する実装リポジトリ。イベント発行のために変更前後の状態を返す。
type AdminRepository struct {
	surveys   *mongo.Collection
	questions *mongo.Collection
	versions  *mongo.Collection
	domains   *mongo.Collection
	clients   *mongo.Collection
}

// AdminCollections names the collections the repository operates on.
type AdminCollections struct {
	Surveys   string
	Questions string
	Versions  string
	Domains   string
	Clients   string
}

// NewAdminRepository binds the repository to its collections.
func NewAdminRepository(db *mongo.Database, cols AdminCollections) *AdminRepository {
	return &AdminRepository{
		surveys:   db.Collection(cols.Surveys),
		questions: db.Collection(cols.Questions),
		versions:  db.Collection(cols.Versions),
		domains:   db.Collection(cols.Domains),
		clients:   db.Collection(cols.Clients),
	}
}

// DeleteSurvey removes the survey together with its questions and versions
// and returns the deleted survey.
func (r *AdminRepository) DeleteSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc SurveyDocument
	if err := r.surveys.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}

	if _, err := r.questions.DeleteMany(ctx, bson.M{"survey": objectID}); err != nil {
		return nil, err
	}
	if _, err := r.versions.DeleteMany(ctx, bson.M{"survey": objectID}); err != nil {
		return nil, err
	}

	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// DeleteDomain removes one domain and returns its last state.
func (r *AdminRepository) DeleteDomain(ctx context.Context, id string) (*domain.Domain, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc DomainDocument
	if err := r.domains.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	mapped := mapDomainDocument(doc)
	return &mapped, nil
}

// DeleteClient removes one client and returns its last state.
func (r *AdminRepository) DeleteClient(ctx context.Context, id string) (*domain.Client, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc ClientDocument
	if err := r.clients.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	mapped := mapClientDocument(doc)
	return &mapped, nil
}

// SetActiveSurvey assigns a new active survey to the domain and returns the
// updated and previous states. An empty surveyID clears the assignment.
func (r *AdminRepository) SetActiveSurvey(ctx context.Context, domainID, surveyID string) (*domain.Domain, *domain.Domain, error) {
	objectID, err := primitive.ObjectIDFromHex(domainID)
	if err != nil {
		return nil, nil, err
	}

	update := bson.M{"$unset": bson.M{"activeSurvey": ""}}
	if surveyID != "" {
		surveyObjectID, err := primitive.ObjectIDFromHex(surveyID)
		if err != nil {
			return nil, nil, err
		}
		update = bson.M{"$set": bson.M{"activeSurvey": surveyObjectID}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var beforeDoc DomainDocument
	if err := r.domains.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&beforeDoc); err != nil {
		return nil, nil, err
	}

	previous := mapDomainDocument(beforeDoc)
	updated := previous
	updated.ActiveSurvey = surveyID
	return &updated, &previous, nil
}
