package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAnswerCleared(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	liked := true
	choice := "c1"
	rating := 7.0
	normalized := 0.7
	favorite := "i2"

	cases := []struct {
		name   string
		answer Answer
		check  func(t *testing.T, cleared Answer)
	}{
		{
			name:   "like",
			answer: Answer{Question: "q1", Type: QuestionTypeLike, Liked: &liked, CreationDate: createdAt},
			check: func(t *testing.T, cleared Answer) {
				require.Nil(t, cleared.Liked)
			},
		},
		{
			name:   "choice",
			answer: Answer{Question: "q1", Type: QuestionTypeChoice, Choice: &choice, CreationDate: createdAt},
			check: func(t *testing.T, cleared Answer) {
				require.Nil(t, cleared.Choice)
			},
		},
		{
			name:   "regulator",
			answer: Answer{Question: "q1", Type: QuestionTypeRegulator, Rating: &rating, Normalized: &normalized, CreationDate: createdAt},
			check: func(t *testing.T, cleared Answer) {
				require.Nil(t, cleared.Rating)
				require.Nil(t, cleared.Normalized)
			},
		},
		{
			name:   "ranking",
			answer: Answer{Question: "q1", Type: QuestionTypeRanking, RankedItems: []string{"a", "b"}, CreationDate: createdAt},
			check: func(t *testing.T, cleared Answer) {
				require.Nil(t, cleared.RankedItems)
			},
		},
		{
			name:   "favorite",
			answer: Answer{Question: "q1", Type: QuestionTypeFavorite, FavoriteItem: &favorite, CreationDate: createdAt},
			check: func(t *testing.T, cleared Answer) {
				require.Nil(t, cleared.FavoriteItem)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cleared := tc.answer.Cleared()
			tc.check(t, cleared)
			require.Equal(t, tc.answer.Type, cleared.Type)
			require.Equal(t, tc.answer.Question, cleared.Question)
			require.Equal(t, createdAt, cleared.CreationDate)
		})
	}
}

func TestQuestionOptionIDs(t *testing.T) {
	question := Question{
		Choices: []Choice{{ID: "c1"}, {ID: "c2"}},
		Items:   []Item{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}},
	}
	require.Equal(t, []string{"c1", "c2"}, question.ChoiceIDs())
	require.Equal(t, []string{"i1", "i2", "i3"}, question.ItemIDs())
}
