package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// ClientRepository は回答端末の参照を提供する実装リポジトリ。
type ClientRepository struct {
	collection *mongo.Collection
}

// NewClientRepository binds the repository to its collection.
func NewClientRepository(db *mongo.Database, collection string) *ClientRepository {
	return &ClientRepository{collection: db.Collection(collection)}
}

// FindByID returns a single client by its identifier.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc ClientDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	mapped := mapClientDocument(doc)
	return &mapped, nil
}

func mapClientDocument(doc ClientDocument) domain.Client {
	mapped := domain.Client{
		ID:   doc.ID.Hex(),
		Name: doc.Name,
	}
	if doc.Domain != nil {
		mapped.Domain = doc.Domain.Hex()
	}
	return mapped
}
