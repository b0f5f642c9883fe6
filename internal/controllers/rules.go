package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/settings"
)

// endedShowSizeGB is the floor below which an ended show is not worth
// archiving on its own.
const endedShowSizeGB = 8.0

const dateLayout = "2006-01-02"

// Classify applies the retention rules to a snapshot and returns fresh
// classified records; the input is never mutated, so cached snapshots stay
// safe under concurrent reads.
//
// Rules are evaluated per item, first match wins:
//  1. keep-forever protects the item unconditionally.
//  2. An item no library manager tracks is never a candidate.
//  3. Large ended shows become archive candidates.
//  4. delete-if-streaming items available on a preferred provider become
//     delete candidates.
//  5. Items unwatched past the archive window become archive candidates.
//  6. Watched items past the delete window become delete candidates.
//  7. Otherwise the source-provided status stands.
//
// A "month" is a fixed 30 days here, not a calendar month; downstream
// consumers depend on that arithmetic.
func Classify(items []models.MediaItem, s settings.Settings, now time.Time) []models.MediaItem {
	out := make([]models.MediaItem, len(items))
	for i, item := range items {
		out[i] = classifyOne(item, s, now)
	}
	return out
}

func classifyOne(item models.MediaItem, s settings.Settings, now time.Time) models.MediaItem {
	if item.Rule == models.RuleKeepForever {
		item.Status = models.StatusProtected
		item.Reason = "protected by keep-forever rule"
		return item
	}

	if item.RootFolderPath == "" {
		item.Status = models.StatusNotMonitored
		item.Reason = "not tracked by a library manager"
		return item
	}

	if item.Type == models.MediaTypeTV && item.Size >= endedShowSizeGB &&
		item.Status.IsEnded() && ruleIn(item.Rule, models.RuleArchiveEnded, models.RuleAutoManage) {
		item.Reason = fmt.Sprintf("ended show occupying %.1f GB", item.Size)
		item.Status = models.StatusCandidateArchive
		return item
	}

	if item.Rule == models.RuleDeleteIfStreaming && len(item.StreamingServices) > 0 {
		item.Status = models.StatusCandidateDelete
		item.Reason = fmt.Sprintf("available on %s", strings.Join(item.StreamingServices, ", "))
		return item
	}

	lastWatched, watched := parseDate(item.LastWatched)

	if ruleIn(item.Rule, models.RuleArchiveAfterMonths, models.RuleAutoManage) && watched {
		cutoff := now.AddDate(0, 0, -s.ArchiveAfterMonths*30)
		if lastWatched.Before(cutoff) {
			item.Status = models.StatusCandidateArchive
			item.Reason = fmt.Sprintf("not watched since %s (archive window %d months)", item.LastWatched, s.ArchiveAfterMonths)
			return item
		}
	}

	if ruleIn(item.Rule, models.RuleDeleteAfterWatched, models.RuleAutoManage) && item.WatchCount > 0 && watched {
		cutoff := now.AddDate(0, 0, -s.AutoDeleteAfterDays)
		if lastWatched.Before(cutoff) {
			item.Status = models.StatusCandidateDelete
			item.Reason = fmt.Sprintf("watched %d times, last on %s (delete window %d days)", item.WatchCount, item.LastWatched, s.AutoDeleteAfterDays)
			return item
		}
	}

	// No rule matched: the source-provided status stands.
	return item
}

func ruleIn(r models.Rule, rules ...models.Rule) bool {
	for _, candidate := range rules {
		if r == candidate {
			return true
		}
	}
	return false
}

// parseDate parses an ISO date; an empty or malformed value counts as never
// watched.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
