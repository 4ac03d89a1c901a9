package application

import (
	"math"
	"slices"
	"time"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// enhanceAnswer validates a raw submission against its question definition and
// returns the normalized answer stamped with type and creation date. A null
// value for the required field is accepted as an explicit skip and bypasses
// the value check. Every failure surfaces as domain.ErrAnswerInvalid with no
// partial result.
func enhanceAnswer(question domain.Question, input domain.AnswerInput) (domain.Answer, error) {
	answer := domain.Answer{
		Question: input.Question,
		Type:     question.Type,
	}

	switch question.Type {
	case domain.QuestionTypeLike, domain.QuestionTypeLikeDislike:
		if !input.LikedSet {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		answer.Liked = input.Liked

	case domain.QuestionTypeChoice:
		if !input.ChoiceSet {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		if input.Choice != nil && !slices.Contains(question.ChoiceIDs(), *input.Choice) {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		answer.Choice = input.Choice

	case domain.QuestionTypeRegulator:
		if !input.RatingSet {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		if input.Rating != nil {
			rating := *input.Rating
			if rating < question.Min || rating > question.Max {
				return domain.Answer{}, domain.ErrAnswerInvalid
			}
			distance := math.Abs(question.Max - question.Min)
			normalized := (rating - question.Min) / distance
			answer.Rating = input.Rating
			answer.Normalized = &normalized
		}

	case domain.QuestionTypeRanking:
		if !input.RankedItemsSet {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		if input.RankedItems != nil {
			if !isPermutation(question.ItemIDs(), input.RankedItems) {
				return domain.Answer{}, domain.ErrAnswerInvalid
			}
			answer.RankedItems = input.RankedItems
		}

	case domain.QuestionTypeFavorite:
		if !input.FavoriteItemSet {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		if input.FavoriteItem != nil && !slices.Contains(question.ItemIDs(), *input.FavoriteItem) {
			return domain.Answer{}, domain.ErrAnswerInvalid
		}
		answer.FavoriteItem = input.FavoriteItem

	default:
		return domain.Answer{}, domain.ErrAnswerInvalid
	}

	answer.CreationDate = time.Now()
	return answer, nil
}

// isPermutation reports whether ranked contains exactly the question items,
// in any order.
func isPermutation(items, ranked []string) bool {
	if len(ranked) != len(items) {
		return false
	}
	remaining := make(map[string]int, len(items))
	for _, item := range items {
		remaining[item]++
	}
	for _, item := range ranked {
		if remaining[item] == 0 {
			return false
		}
		remaining[item]--
	}
	return true
}
