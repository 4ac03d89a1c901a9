package domain

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeLike        QuestionType = "LIKE"
	QuestionTypeLikeDislike QuestionType = "LIKEDISLIKE"
	QuestionTypeChoice      QuestionType = "CHOICE"
	QuestionTypeRegulator   QuestionType = "REGULATOR"
	QuestionTypeRanking     QuestionType = "RANKING"
	QuestionTypeFavorite    QuestionType = "FAVORITE"
)

// Question represents one question of a survey version. Questions are owned by
// durable storage and treated as read-only snapshots by the answer engine.
type Question struct {
	ID      string
	Survey  string
	Type    QuestionType
	Value   string
	Choices []Choice
	Items   []Item
	Min     float64
	Max     float64
}

// Choice is a selectable option of a CHOICE question.
type Choice struct {
	ID    string
	Label string
}

// Item is a rankable entry of a RANKING or FAVORITE question.
type Item struct {
	ID    string
	Label string
}

// ChoiceIDs returns the option identifiers in definition order.
func (q Question) ChoiceIDs() []string {
	ids := make([]string, 0, len(q.Choices))
	for _, c := range q.Choices {
		ids = append(ids, c.ID)
	}
	return ids
}

// ItemIDs returns the item identifiers in definition order.
func (q Question) ItemIDs() []string {
	ids := make([]string, 0, len(q.Items))
	for _, i := range q.Items {
		ids = append(ids, i.ID)
	}
	return ids
}
