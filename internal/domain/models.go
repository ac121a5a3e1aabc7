package domain

import "time"

// Option represents a possible answer for a question. IsRight is only ever
// consulted by the scorer; transport strips it before serving quizzes.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	IsRight bool   `json:"is_right"`
}

// Question belongs to exactly one quiz and carries its options in catalog order.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Quiz is the catalog aggregate: ordered questions, price and free-tier flag.
// The results subsystem only ever reads quizzes.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	PriceCents int64      `json:"price_cents"`
	IsFree     bool       `json:"is_free"`
	Questions  []Question `json:"questions"`
}

// CorrectOptionIDs returns the set of option IDs flagged right for the question.
func (q Question) CorrectOptionIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.IsRight {
			ids[opt.ID] = struct{}{}
		}
	}
	return ids
}

// HasOption reports whether the question contains the given option.
func (q Question) HasOption(optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// QuestionByID finds a question inside the quiz, reporting whether it exists.
func (q Quiz) QuestionByID(questionID string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == questionID {
			return question, true
		}
	}
	return Question{}, false
}

// QuizResult is one user's run-through of one quiz.
//
// Result is defined as 0 while IsFinished is false and is computed exactly
// once, on the open->closed transition. The flag and the score are always
// persisted together.
type QuizResult struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	QuizID     string    `json:"quiz_id"`
	IsFinished bool      `json:"is_finished"`
	Result     int       `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionResult records a user's submitted response to one question within
// one attempt. The referenced question must belong to the attempt's quiz.
type QuestionResult struct {
	ID           string         `json:"id"`
	QuizResultID string         `json:"quiz_result_id"`
	QuestionID   string         `json:"question_id"`
	Options      []OptionResult `json:"options"`
	CreatedAt    time.Time      `json:"created_at"`
}

// OptionResult is one selected option within a question result.
type OptionResult struct {
	ID               string `json:"id"`
	QuestionResultID string `json:"question_result_id"`
	OptionID         string `json:"option_id"`
}

// Purchase grants a user access to a paid quiz.
type Purchase struct {
	UserID    string    `json:"user_id"`
	QuizID    string    `json:"quiz_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AssociationKind names a user<->quiz relation kept in an explicit
// association table rather than as a mutable collection on the user.
type AssociationKind string

// AssociationFavorite marks a quiz a user bookmarked.
const AssociationFavorite AssociationKind = "favorite"

// Association is one user<->quiz link of a given kind.
type Association struct {
	UserID    string          `json:"user_id"`
	QuizID    string          `json:"quiz_id"`
	Kind      AssociationKind `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}

// AttemptProgress is the snapshot pushed to live-feed subscribers.
type AttemptProgress struct {
	QuizResultID string    `json:"quizResultId"`
	QuizID       string    `json:"quizId"`
	Answered     int       `json:"answered"`
	IsFinished   bool      `json:"isFinished"`
	Result       int       `json:"result"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
