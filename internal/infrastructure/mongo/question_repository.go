package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// QuestionRepository はアンケート質問を MongoDB から読み取る実装リポジトリ。
type QuestionRepository struct {
	collection *mongo.Collection
}

// NewQuestionRepository binds the repository to its collection.
func NewQuestionRepository(db *mongo.Database, collection string) *QuestionRepository {
	return &QuestionRepository{collection: db.Collection(collection)}
}

// FindBySurvey returns every question of the survey in storage order.
func (r *QuestionRepository) FindBySurvey(ctx context.Context, surveyID string) ([]domain.Question, error) {
	objectID, err := primitive.ObjectIDFromHex(surveyID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"survey": objectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := make([]domain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, mapQuestionDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func mapQuestionDocument(doc QuestionDocument) domain.Question {
	question := domain.Question{
		ID:     doc.ID.Hex(),
		Survey: doc.Survey.Hex(),
		Type:   domain.QuestionType(doc.Type),
		Value:  doc.Value,
		Min:    doc.Min,
		Max:    doc.Max,
	}
	for _, choice := range doc.Choices {
		question.Choices = append(question.Choices, domain.Choice{ID: choice.ID.Hex(), Label: choice.Label})
	}
	for _, item := range doc.Items {
		question.Items = append(question.Items, domain.Item{ID: item.ID.Hex(), Label: item.Label})
	}
	return question
}
