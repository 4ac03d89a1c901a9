package public

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sngm3741/survey-terminal-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

// createAnswerRequest mirrors the raw submission wire format. The value
// fields stay raw so that an explicit null can be told apart from an absent
// key — null means the question is deliberately skipped.
type createAnswerRequest struct {
	Question     string          `json:"question"`
	Liked        json.RawMessage `json:"liked"`
	Choice       json.RawMessage `json:"choice"`
	Rating       json.RawMessage `json:"rating"`
	RankedItems  json.RawMessage `json:"rankedItems"`
	FavoriteItem json.RawMessage `json:"favoriteItem"`
}

type createAnswerResponse struct {
	Answer      map[string]any `json:"answer"`
	VoteCreated bool           `json:"voteCreated"`
}

func (r createAnswerRequest) toInput() (domain.AnswerInput, error) {
	input := domain.AnswerInput{Question: r.Question}
	if input.Question == "" {
		return domain.AnswerInput{}, errors.New("質問 ID を指定してください")
	}

	if present(r.Liked) {
		input.LikedSet = true
		if err := decodeValue(r.Liked, &input.Liked); err != nil {
			return domain.AnswerInput{}, errors.New("liked の値を解釈できません")
		}
	}
	if present(r.Choice) {
		input.ChoiceSet = true
		if err := decodeValue(r.Choice, &input.Choice); err != nil {
			return domain.AnswerInput{}, errors.New("choice の値を解釈できません")
		}
	}
	if present(r.Rating) {
		input.RatingSet = true
		if err := decodeValue(r.Rating, &input.Rating); err != nil {
			return domain.AnswerInput{}, errors.New("rating の値を解釈できません")
		}
	}
	if present(r.RankedItems) {
		input.RankedItemsSet = true
		if !isNull(r.RankedItems) {
			if err := json.Unmarshal(r.RankedItems, &input.RankedItems); err != nil {
				return domain.AnswerInput{}, errors.New("rankedItems の値を解釈できません")
			}
			if len(input.RankedItems) > common.MaxRankedItems {
				return domain.AnswerInput{}, errors.New("rankedItems の件数が多すぎます")
			}
		}
	}
	if present(r.FavoriteItem) {
		input.FavoriteItemSet = true
		if err := decodeValue(r.FavoriteItem, &input.FavoriteItem); err != nil {
			return domain.AnswerInput{}, errors.New("favoriteItem の値を解釈できません")
		}
	}

	return input, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// decodeValue unmarshals a raw field into a typed pointer; a JSON null leaves
// the pointer nil.
func decodeValue[T any](raw json.RawMessage, target **T) error {
	if isNull(raw) {
		return nil
	}
	value := new(T)
	if err := json.Unmarshal(raw, value); err != nil {
		return err
	}
	*target = value
	return nil
}

// buildAnswerPayload renders an answer with its type-specific value field
// always present, so a skip shows up as an explicit null.
func buildAnswerPayload(answer domain.Answer) map[string]any {
	payload := map[string]any{
		"question":     answer.Question,
		"type":         string(answer.Type),
		"creationDate": answer.CreationDate.Format(time.RFC3339),
	}

	switch answer.Type {
	case domain.QuestionTypeLike, domain.QuestionTypeLikeDislike:
		payload["liked"] = answer.Liked
	case domain.QuestionTypeChoice:
		payload["choice"] = answer.Choice
	case domain.QuestionTypeRegulator:
		payload["rating"] = answer.Rating
		payload["normalized"] = answer.Normalized
	case domain.QuestionTypeRanking:
		payload["rankedItems"] = answer.RankedItems
	case domain.QuestionTypeFavorite:
		payload["favoriteItem"] = answer.FavoriteItem
	}
	return payload
}
