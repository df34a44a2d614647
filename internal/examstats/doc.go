// Package examstats analyses past exam papers: which topics come up most,
// how marks are spread, and which questions are worth revising first.
//
// Rows are imported from CSV or Excel workbooks and cleaned before any
// statistic is computed.
package examstats
