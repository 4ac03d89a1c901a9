package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VersionRepository はアンケートバージョンの参照を提供する実装リポジトリ。
type VersionRepository struct {
	collection *mongo.Collection
}

// NewVersionRepository binds the repository to its collection.
func NewVersionRepository(db *mongo.Database, collection string) *VersionRepository {
	return &VersionRepository{collection: db.Collection(collection)}
}

// LatestBySurvey returns the id of the survey's most recent version, ordered
// by descending version number.
func (r *VersionRepository) LatestBySurvey(ctx context.Context, surveyID string) (string, error) {
	objectID, err := primitive.ObjectIDFromHex(surveyID)
	if err != nil {
		return "", err
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "versionNumber", Value: -1}})
	var doc VersionDocument
	if err := r.collection.FindOne(ctx, bson.M{"survey": objectID}, opts).Decode(&doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}
