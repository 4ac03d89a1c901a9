package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// DomainRepository はドメイン(設置場所)の参照を提供する実装リポジトリ。
type DomainRepository struct {
	collection *mongo.Collection
}

// NewDomainRepository binds the repository to its collection.
func NewDomainRepository(db *mongo.Database, collection string) *DomainRepository {
	return &DomainRepository{collection: db.Collection(collection)}
}

// FindByID returns a single domain by its identifier.
func (r *DomainRepository) FindByID(ctx context.Context, id string) (*domain.Domain, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc DomainDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	mapped := mapDomainDocument(doc)
	return &mapped, nil
}

func mapDomainDocument(doc DomainDocument) domain.Domain {
	mapped := domain.Domain{
		ID:   doc.ID.Hex(),
		Name: doc.Name,
	}
	if doc.ActiveSurvey != nil {
		mapped.ActiveSurvey = doc.ActiveSurvey.Hex()
	}
	return mapped
}
