package domain

import "github.com/google/uuid"

// QuizResponse carries a learner's answer to one quiz item. Which field is
// read depends on Kind:
//
//	multiple_choice, true_false: Selected
//	fill_blank:                  Answer
//	matching:                    Matches (term index -> definition index)
type QuizResponse struct {
	ItemID   uuid.UUID   `json:"item_id"`
	Kind     Kind        `json:"kind"`
	Selected *int        `json:"selected,omitempty"`
	Answer   string      `json:"answer,omitempty"`
	Matches  map[int]int `json:"matches,omitempty"`
}

// Submission pairs a quiz item with the response given to it, so that it can
// be graded without any other state.
type Submission struct {
	Item     QuizItem     `json:"item"`
	Response QuizResponse `json:"response"`
}

// SelectedResponse builds a response for a multiple-choice or true/false item.
func SelectedResponse(item *QuizItem, selected int) QuizResponse {
	return QuizResponse{ItemID: item.ID, Kind: item.Kind, Selected: &selected}
}

// TextResponse builds a response for a fill-in-the-blank item.
func TextResponse(item *QuizItem, answer string) QuizResponse {
	return QuizResponse{ItemID: item.ID, Kind: item.Kind, Answer: answer}
}

// MatchingResponse builds a response for a matching item.
func MatchingResponse(item *QuizItem, matches map[int]int) QuizResponse {
	return QuizResponse{ItemID: item.ID, Kind: item.Kind, Matches: matches}
}
