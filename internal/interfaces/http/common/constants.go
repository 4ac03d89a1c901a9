package common

const (
	// MaxAnswerRequestBody limits JSON request bodies on answer endpoints.
	MaxAnswerRequestBody = 64 << 10
	// MaxRankedItems caps the item count accepted for a RANKING answer before
	// validation even looks at the question definition.
	MaxRankedItems = 100
)
