package models

import "strings"

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Status represents the classification of a media item. It starts as a
// source-provided lifecycle value (e.g. Sonarr's "ended") and is replaced by
// the rule engine.
type Status string

const (
	StatusActive           Status = "active"
	StatusProtected        Status = "protected"
	StatusCandidateArchive Status = "candidate-archive"
	StatusCandidateDelete  Status = "candidate-delete"
	StatusNotMonitored     Status = "not-monitored"
	StatusArchived         Status = "archived"
)

// IsCandidate reports whether the status flags the item for archive or delete.
func (s Status) IsCandidate() bool {
	return strings.HasPrefix(string(s), "candidate-")
}

// IsEnded reports whether a source-provided status is an "ended" lifecycle
// value. Sonarr reports "ended", older library exports used "Ended".
func (s Status) IsEnded() bool {
	return strings.EqualFold(string(s), "ended")
}

// Rule is the retention policy assigned to a media item.
type Rule string

const (
	RuleKeepForever        Rule = "keep-forever"
	RuleArchiveEnded       Rule = "archive-ended"
	RuleDeleteIfStreaming  Rule = "delete-if-streaming"
	RuleArchiveAfterMonths Rule = "archive-after-6months"
	RuleDeleteAfterWatched Rule = "delete-after-watched"
	RuleAutoManage         Rule = "auto-manage"
)
