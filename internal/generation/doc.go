// Package generation turns study text into summaries, key points, flashcards
// and quiz items. The Generator interface is the boundary the services depend
// on; the heuristic implementation scores sentences against the keywords
// found by package nlp and needs no external service.
//
// Every random choice (sentence shuffling, distractor sampling, the word
// picked for a blank) goes through an injected Rand so that tests can use a
// seeded source and assert exact output.
package generation
