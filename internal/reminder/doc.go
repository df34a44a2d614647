// Package reminder periodically looks for sessions with flashcards due for
// review and emits a review.due event for each of them.
package reminder
