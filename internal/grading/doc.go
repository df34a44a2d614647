// Package grading scores quiz responses and typed flashcard recalls.
//
// Grading is a pure function of an item and the response given to it: a
// domain.Submission carries both, so no other state is consulted. Responses
// that do not fit their item (a wrong kind, an option index out of range,
// an incomplete matching) are graded as incorrect rather than rejected.
package grading
