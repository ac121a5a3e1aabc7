package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrResultNotFound is returned when a quiz result does not exist or is
	// owned by another user.
	ErrResultNotFound = errors.New("quiz result not found")
	// ErrQuizMismatch rejects answers whose question does not belong to the
	// quiz the attempt was started for.
	ErrQuizMismatch = errors.New("question does not belong to the attempt's quiz")
	// ErrOptionMismatch rejects selected options outside the answered question.
	ErrOptionMismatch = errors.New("option does not belong to the question")
	// ErrDuplicateAnswer rejects a second answer to the same question within
	// one attempt.
	ErrDuplicateAnswer = errors.New("question already answered in this attempt")
	// ErrAlreadyFinished rejects mutations of a finished attempt, including
	// un-finalizing it.
	ErrAlreadyFinished = errors.New("quiz result already finished")
	// ErrNoOptions rejects an answer submission without any selected options.
	ErrNoOptions = errors.New("no options selected")
	// ErrAccessDenied is returned when a user may not view a paid quiz's
	// questions.
	ErrAccessDenied = errors.New("quiz access denied")
	// ErrQuizFree indicates a purchase was requested for a free-tier quiz.
	ErrQuizFree = errors.New("quiz is free")
	// ErrPaymentDeclined is returned when the payment authorizer rejects a
	// purchase.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrAssociationNotFound is returned when removing a link that was never
	// added.
	ErrAssociationNotFound = errors.New("association not found")
)
