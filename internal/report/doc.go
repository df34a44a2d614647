// Package report builds Markdown study reports from session counters and
// exam statistics, and renders Markdown to HTML with goldmark.
package report
