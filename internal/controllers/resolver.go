package controllers

import (
	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"
)

// TitleIndex resolves media-server titles to library-manager ids by exact,
// case-sensitive match. Title-based joins across independent systems drift
// (punctuation, casing, duplicates), so an unresolved title is logged with
// the closest known title to make that drift visible, distinct from a
// confirmed not-monitored item.
type TitleIndex struct {
	manager string
	ids     map[string]int
	titles  []string
	logger  *logrus.Logger
}

// NewTitleIndex builds an index from manager title to manager id.
func NewTitleIndex(manager string, ids map[string]int, logger *logrus.Logger) *TitleIndex {
	titles := make([]string, 0, len(ids))
	for title := range ids {
		titles = append(titles, title)
	}
	return &TitleIndex{
		manager: manager,
		ids:     ids,
		titles:  titles,
		logger:  logger,
	}
}

// Resolve returns the manager id for a title, or false when the manager does
// not track it.
func (ti *TitleIndex) Resolve(title string) (int, bool) {
	if id, ok := ti.ids[title]; ok {
		return id, true
	}

	fields := logrus.Fields{
		"manager": ti.manager,
		"title":   title,
	}
	if closest, distance := ti.nearest(title); closest != "" {
		fields["closest"] = closest
		fields["distance"] = distance
	}
	ti.logger.WithFields(fields).Warn("Title not tracked by library manager")
	return 0, false
}

// nearest returns the known title with the smallest edit distance.
func (ti *TitleIndex) nearest(title string) (string, int) {
	best := ""
	bestDistance := -1
	for _, known := range ti.titles {
		d := levenshtein.ComputeDistance(title, known)
		if bestDistance < 0 || d < bestDistance {
			best = known
			bestDistance = d
		}
	}
	return best, bestDistance
}
