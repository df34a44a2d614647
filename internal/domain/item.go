package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates flashcards and quiz items.
type Kind string

// Known item kinds.
const (
	KindDefinition     Kind = "definition"
	KindExample        Kind = "example"
	KindExplanation    Kind = "explanation"
	KindProcess        Kind = "process"
	KindReview         Kind = "review"
	KindFillBlank      Kind = "fill_blank"
	KindTrueFalse      Kind = "true_false"
	KindMatching       Kind = "matching"
	KindMultipleChoice Kind = "multiple_choice"
)

// Answer values used by true/false flashcards.
const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)

// Blank is the marker substituted for a removed word in fill-in-the-blank items.
const Blank = "_____"

// Item validation errors
var (
	ErrItemIDEmpty        = errors.New("item ID cannot be empty")
	ErrItemQuestionEmpty  = errors.New("item question cannot be empty")
	ErrItemAnswerEmpty    = errors.New("item answer cannot be empty")
	ErrItemOptionsInvalid = errors.New("item options are invalid")
	ErrItemMatchingShape  = errors.New("matching item terms, definitions and answer map disagree")
)

// IsFlashcardKind reports whether k may appear on a flashcard.
func (k Kind) IsFlashcardKind() bool {
	switch k {
	case KindDefinition, KindExample, KindExplanation, KindProcess,
		KindReview, KindFillBlank, KindTrueFalse:
		return true
	default:
		return false
	}
}

// IsQuizKind reports whether k may appear in a quiz.
func (k Kind) IsQuizKind() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindFillBlank, KindMatching:
		return true
	default:
		return false
	}
}

// AllQuizKinds lists the quiz kinds in their default generation order.
func AllQuizKinds() []Kind {
	return []Kind{KindMultipleChoice, KindTrueFalse, KindFillBlank, KindMatching}
}

// Difficulty controls how quiz questions are phrased.
type Difficulty string

// Quiz difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Validate checks that d is a known difficulty.
func (d Difficulty) Validate() error {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
	}
}

// Flashcard is a question/answer pair generated from study text.
// The ID is the identity under which review progress is tracked.
type Flashcard struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"kind"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
}

// NewFlashcard creates a flashcard with the given identity.
func NewFlashcard(id uuid.UUID, kind Kind, question, answer string) (*Flashcard, error) {
	card := &Flashcard{
		ID:       id,
		Kind:     kind,
		Question: question,
		Answer:   answer,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if !c.Kind.IsFlashcardKind() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(c.Kind))
	}

	if c.Question == "" {
		return ErrItemQuestionEmpty
	}

	if c.Answer == "" {
		return ErrItemAnswerEmpty
	}

	if c.Kind == KindTrueFalse && c.Answer != AnswerTrue && c.Answer != AnswerFalse {
		return fmt.Errorf("%w: true/false answer %q", ErrValidation, c.Answer)
	}

	return nil
}

// QuizItem is one quiz question. Which fields are set depends on Kind:
//
//	multiple_choice, true_false: Options, AnswerIndex
//	fill_blank:                  Answer
//	matching:                    Terms, Definitions, AnswerMap
type QuizItem struct {
	ID          uuid.UUID   `json:"id"`
	Kind        Kind        `json:"kind"`
	Question    string      `json:"question"`
	Options     []string    `json:"options,omitempty"`
	AnswerIndex int         `json:"answer_index"`
	Answer      string      `json:"answer,omitempty"`
	Terms       []string    `json:"terms,omitempty"`
	Definitions []string    `json:"definitions,omitempty"`
	AnswerMap   map[int]int `json:"answer_map,omitempty"`
	Explanation string      `json:"explanation"`
}

// NewChoiceItem creates a multiple-choice or true/false quiz item.
func NewChoiceItem(
	id uuid.UUID,
	kind Kind,
	question string,
	options []string,
	answerIndex int,
	explanation string,
) (*QuizItem, error) {
	item := &QuizItem{
		ID:          id,
		Kind:        kind,
		Question:    question,
		Options:     options,
		AnswerIndex: answerIndex,
		Explanation: explanation,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// NewFillBlankItem creates a fill-in-the-blank quiz item.
func NewFillBlankItem(id uuid.UUID, question, answer, explanation string) (*QuizItem, error) {
	item := &QuizItem{
		ID:          id,
		Kind:        KindFillBlank,
		Question:    question,
		Answer:      answer,
		Explanation: explanation,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// NewMatchingItem creates a matching quiz item.
func NewMatchingItem(
	id uuid.UUID,
	question string,
	terms, definitions []string,
	answerMap map[int]int,
	explanation string,
) (*QuizItem, error) {
	item := &QuizItem{
		ID:          id,
		Kind:        KindMatching,
		Question:    question,
		Terms:       terms,
		Definitions: definitions,
		AnswerMap:   answerMap,
		Explanation: explanation,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks the fields required by the item's kind.
func (q *QuizItem) Validate() error {
	if q.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if q.Question == "" {
		return ErrItemQuestionEmpty
	}

	switch q.Kind {
	case KindMultipleChoice, KindTrueFalse:
		if len(q.Options) < 2 || q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return ErrItemOptionsInvalid
		}
	case KindFillBlank:
		if q.Answer == "" {
			return ErrItemAnswerEmpty
		}
	case KindMatching:
		if len(q.Terms) == 0 || len(q.Terms) != len(q.Definitions) || len(q.AnswerMap) != len(q.Terms) {
			return ErrItemMatchingShape
		}
		for term, def := range q.AnswerMap {
			if term < 0 || term >= len(q.Terms) || def < 0 || def >= len(q.Definitions) {
				return ErrItemMatchingShape
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(q.Kind))
	}

	return nil
}

// CorrectOption returns the text of the correct option for choice items.
func (q *QuizItem) CorrectOption() string {
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.AnswerIndex]
}
