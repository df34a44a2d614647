package grading

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

const matchPreview = 30

// Result is the graded outcome of one submission.
type Result struct {
	ItemID      uuid.UUID   `json:"item_id"`
	Kind        domain.Kind `json:"kind"`
	Correct     bool        `json:"correct"`
	Malformed   bool        `json:"malformed,omitempty"`
	Message     string      `json:"message"`
	Explanation string      `json:"explanation,omitempty"`
	// CorrectMatches lists "term → definition" lines for a missed matching item.
	CorrectMatches []string `json:"correct_matches,omitempty"`
}

// Grade scores one submission.
func Grade(sub domain.Submission) Result {
	item, resp := sub.Item, sub.Response
	res := Result{ItemID: item.ID, Kind: item.Kind}

	correct, err := isCorrect(&item, &resp)
	if err != nil {
		res.Malformed = true
	}
	res.Correct = correct

	switch item.Kind {
	case domain.KindMultipleChoice, domain.KindTrueFalse:
		if correct {
			res.Message = "Correct"
		} else {
			res.Message = fmt.Sprintf("Incorrect. Correct: %s", item.CorrectOption())
			res.Explanation = item.Explanation
		}
	case domain.KindFillBlank:
		if correct {
			res.Message = "Correct"
		} else {
			res.Message = fmt.Sprintf("Incorrect. Correct answer: %s", item.Answer)
			res.Explanation = item.Explanation
		}
	case domain.KindMatching:
		if correct {
			res.Message = "All matches correct"
		} else {
			res.Message = "Some matches incorrect"
			res.Explanation = item.Explanation
			res.CorrectMatches = correctMatches(&item)
		}
	default:
		res.Message = "Unknown question type"
	}

	return res
}

// Score returns how many submissions are correct out of the total.
func Score(subs []domain.Submission) (correct, total int) {
	for _, sub := range subs {
		if Grade(sub).Correct {
			correct++
		}
	}
	return correct, len(subs)
}

// Feedback grades every submission, keeping their order.
func Feedback(subs []domain.Submission) []Result {
	results := make([]Result, len(subs))
	for i, sub := range subs {
		results[i] = Grade(sub)
	}
	return results
}

// isCorrect reports whether resp answers item. The error is non-nil, and the
// answer incorrect, when resp does not fit item.
func isCorrect(item *domain.QuizItem, resp *domain.QuizResponse) (bool, error) {
	if resp.Kind != "" && resp.Kind != item.Kind {
		return false, fmt.Errorf("%w: %s response to %s item", domain.ErrMalformedResponse, resp.Kind, item.Kind)
	}

	switch item.Kind {
	case domain.KindMultipleChoice, domain.KindTrueFalse:
		if resp.Selected == nil {
			return false, fmt.Errorf("%w: no option selected", domain.ErrMalformedResponse)
		}
		sel := *resp.Selected
		if sel < 0 || sel >= len(item.Options) {
			return false, fmt.Errorf("%w: option %d out of range", domain.ErrMalformedResponse, sel)
		}
		return sel == item.AnswerIndex, nil

	case domain.KindFillBlank:
		given := normalize(resp.Answer)
		if given == "" {
			return false, nil
		}
		want := normalize(item.Answer)
		return given == want || strings.HasPrefix(want, given), nil

	case domain.KindMatching:
		if len(resp.Matches) != len(item.Terms) {
			return false, fmt.Errorf("%w: %d of %d terms matched",
				domain.ErrMalformedResponse, len(resp.Matches), len(item.Terms))
		}
		for term, def := range resp.Matches {
			if term < 0 || term >= len(item.Terms) || def < 0 || def >= len(item.Definitions) {
				return false, fmt.Errorf("%w: match %d→%d out of range", domain.ErrMalformedResponse, term, def)
			}
		}
		for term, def := range resp.Matches {
			want, ok := item.AnswerMap[term]
			if !ok || want != def {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownKind, string(item.Kind))
	}
}

func correctMatches(item *domain.QuizItem) []string {
	lines := make([]string, 0, len(item.Terms))
	for j, term := range item.Terms {
		def, ok := item.AnswerMap[j]
		if !ok || def < 0 || def >= len(item.Definitions) {
			continue
		}
		preview := []rune(item.Definitions[def])
		if len(preview) > matchPreview {
			preview = preview[:matchPreview]
		}
		lines = append(lines, fmt.Sprintf("%s → %s...", term, string(preview)))
	}
	return lines
}

// normalize lowercases s and collapses its whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
