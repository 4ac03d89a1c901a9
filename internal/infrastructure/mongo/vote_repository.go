package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// VoteRepository は確定済み投票を MongoDB へ書き込む実装リポジトリ。
type VoteRepository struct {
	collection *mongo.Collection
}

// NewVoteRepository binds the repository to its collection.
func NewVoteRepository(db *mongo.Database, collection string) *VoteRepository {
	return &VoteRepository{collection: db.Collection(collection)}
}

// Insert writes the vote once and stamps the generated id back onto it.
func (r *VoteRepository) Insert(ctx context.Context, vote *domain.Vote) error {
	doc, err := mapVote(vote)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	vote.ID = doc.ID.Hex()
	return nil
}

func mapVote(vote *domain.Vote) (VoteDocument, error) {
	versionID, err := primitive.ObjectIDFromHex(vote.Version)
	if err != nil {
		return VoteDocument{}, err
	}
	surveyID, err := primitive.ObjectIDFromHex(vote.Survey)
	if err != nil {
		return VoteDocument{}, err
	}
	domainID, err := primitive.ObjectIDFromHex(vote.Domain)
	if err != nil {
		return VoteDocument{}, err
	}
	clientID, err := primitive.ObjectIDFromHex(vote.Client)
	if err != nil {
		return VoteDocument{}, err
	}

	doc := VoteDocument{
		ID:           primitive.NewObjectID(),
		Version:      versionID,
		Survey:       surveyID,
		Domain:       domainID,
		Client:       clientID,
		CreationDate: time.Now(),
	}

	doc.Answers = make([]AnswerDocument, 0, len(vote.Answers))
	for _, answer := range vote.Answers {
		questionID, err := primitive.ObjectIDFromHex(answer.Question)
		if err != nil {
			return VoteDocument{}, err
		}
		doc.Answers = append(doc.Answers, AnswerDocument{
			Question:     questionID,
			Type:         string(answer.Type),
			Liked:        answer.Liked,
			Choice:       answer.Choice,
			Rating:       answer.Rating,
			Normalized:   answer.Normalized,
			RankedItems:  answer.RankedItems,
			FavoriteItem: answer.FavoriteItem,
			CreationDate: answer.CreationDate,
		})
	}
	return doc, nil
}
