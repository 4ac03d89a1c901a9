package domain

import "time"

// Answer is a validated, normalized answer to one question. A nil value field
// on an otherwise present answer represents an explicit skip.
type Answer struct {
	Question     string
	Type         QuestionType
	Liked        *bool
	Choice       *string
	Rating       *float64
	Normalized   *float64
	RankedItems  []string
	FavoriteItem *string
	CreationDate time.Time
}

// AnswerInput carries one raw answer submission. The Set flags distinguish a
// field that arrived as null (explicit skip) from a field that was absent.
type AnswerInput struct {
	Question        string
	Liked           *bool
	LikedSet        bool
	Choice          *string
	ChoiceSet       bool
	Rating          *float64
	RatingSet       bool
	RankedItems     []string
	RankedItemsSet  bool
	FavoriteItem    *string
	FavoriteItemSet bool
}

// Cleared returns a copy of the answer with its type-specific value fields set
// to nil, turning it into an explicit skip. Type and CreationDate survive.
func (a Answer) Cleared() Answer {
	cleared := a
	switch a.Type {
	case QuestionTypeLike, QuestionTypeLikeDislike:
		cleared.Liked = nil
	case QuestionTypeChoice:
		cleared.Choice = nil
	case QuestionTypeRegulator:
		cleared.Rating = nil
		cleared.Normalized = nil
	case QuestionTypeRanking:
		cleared.RankedItems = nil
	case QuestionTypeFavorite:
		cleared.FavoriteItem = nil
	}
	return cleared
}
