package domain

import "errors"

var (
	// ErrAnswerInvalid covers every validation failure: unknown question type,
	// missing required field, failed membership/range/permutation check, or a
	// question id not present in the survey.
	ErrAnswerInvalid = errors.New("answer is not valid")

	// ErrNoQuestions is returned when a survey has no questions to answer.
	ErrNoQuestions = errors.New("no questions found")

	// ErrVoteNotPersisted signals a retryable storage failure while writing a
	// completed vote. Cache state is left so that a retry is safe.
	ErrVoteNotPersisted = errors.New("vote could not be persisted, please retry")
)
