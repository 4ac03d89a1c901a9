package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// SurveyRepository はアンケート本体の参照を提供する実装リポジトリ。
type SurveyRepository struct {
	collection *mongo.Collection
}

// NewSurveyRepository binds the repository to its collection.
func NewSurveyRepository(db *mongo.Database, collection string) *SurveyRepository {
	return &SurveyRepository{collection: db.Collection(collection)}
}

// FindByID returns a single survey by its identifier.
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc SurveyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	order := make([]string, 0, len(doc.QuestionOrder))
	for _, questionID := range doc.QuestionOrder {
		order = append(order, questionID.Hex())
	}
	return domain.Survey{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		QuestionOrder: order,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
