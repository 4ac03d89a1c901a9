package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyDocument は MongoDB 上のアンケートスキーマを表す。
// questionOrder が投票組み立て時の正準順序となる。
type SurveyDocument struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Title         string               `bson:"title,omitempty"`
	QuestionOrder []primitive.ObjectID `bson:"questionOrder"`
	CreatedAt     time.Time            `bson:"creationDate,omitempty"`
	UpdatedAt     time.Time            `bson:"lastUpdate,omitempty"`
}

// QuestionDocument は質問スキーマ。type に応じて choices / items / min / max
// のいずれかが意味を持つ。
type QuestionDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	Survey  primitive.ObjectID `bson:"survey"`
	Type    string             `bson:"type"`
	Value   string             `bson:"value,omitempty"`
	Choices []ChoiceDocument   `bson:"choices,omitempty"`
	Items   []ItemDocument     `bson:"items,omitempty"`
	Min     float64            `bson:"min"`
	Max     float64            `bson:"max"`
}

// ChoiceDocument is one selectable option embedded in a CHOICE question.
type ChoiceDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Label string             `bson:"label,omitempty"`
}

// ItemDocument is one entry embedded in a RANKING or FAVORITE question.
type ItemDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Label string             `bson:"label,omitempty"`
}

// VersionDocument keeps one immutable survey version snapshot reference.
type VersionDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Survey        primitive.ObjectID `bson:"survey"`
	VersionNumber int                `bson:"versionNumber"`
	CreatedAt     time.Time          `bson:"creationDate,omitempty"`
}

// DomainDocument はドメイン(設置場所)スキーマ。activeSurvey は未割り当ての間 null。
type DomainDocument struct {
	ID           primitive.ObjectID  `bson:"_id"`
	Name         string              `bson:"name,omitempty"`
	ActiveSurvey *primitive.ObjectID `bson:"activeSurvey,omitempty"`
}

// ClientDocument は回答端末スキーマ。
type ClientDocument struct {
	ID           primitive.ObjectID  `bson:"_id"`
	Name         string              `bson:"name,omitempty"`
	Domain       *primitive.ObjectID `bson:"domain,omitempty"`
	CreationDate time.Time           `bson:"creationDate,omitempty"`
	LastUpdate   time.Time           `bson:"lastUpdate,omitempty"`
}

// VoteDocument は確定済み投票。answers はアンケートの questionOrder 順で、
// 挿入後は変更されない。
type VoteDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Answers      []AnswerDocument   `bson:"answers"`
	Version      primitive.ObjectID `bson:"version"`
	Survey       primitive.ObjectID `bson:"survey"`
	Domain       primitive.ObjectID `bson:"domain"`
	Client       primitive.ObjectID `bson:"client"`
	CreationDate time.Time          `bson:"creationDate"`
}

// AnswerDocument embeds one answer inside a vote. Nil value fields are
// stored as explicit nulls, representing a skipped question.
type AnswerDocument struct {
	Question     primitive.ObjectID `bson:"question"`
	Type         string             `bson:"type"`
	Liked        *bool              `bson:"liked,omitempty"`
	Choice       *string            `bson:"choice,omitempty"`
	Rating       *float64           `bson:"rating,omitempty"`
	Normalized   *float64           `bson:"normalized,omitempty"`
	RankedItems  []string           `bson:"rankedItems,omitempty"`
	FavoriteItem *string            `bson:"favoriteItem,omitempty"`
	CreationDate time.Time          `bson:"creationDate"`
}
