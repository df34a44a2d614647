// Package nlp segments study text into sentences and words and ranks words by
// a term-frequency times inverse-sentence-frequency heuristic.
//
// Everything in this package is pure: the same input always yields the same
// output and no state is kept between calls.
package nlp
