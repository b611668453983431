package record

import (
	"sort"

	"github.com/vytor/ringside/internal/models"
)

// HeadToHead tallies the shared history of a and b. records may contain
// duplicates and unrelated matches; both are dropped. The match list is
// newest first and capped at limit when limit > 0. Tallies cover every
// shared match, not just the listed ones.
func HeadToHead(a, b string, records []models.MatchRecord, limit int) models.HeadToHead {
	h2h := models.HeadToHead{
		Wrestler1ID: a,
		Wrestler2ID: b,
		Matches:     []models.MatchRecord{},
	}
	if a == "" || b == "" || a == b {
		return h2h
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		if !rec.Involves(a, b) {
			continue
		}

		switch {
		case rec.IsDraw:
			h2h.Draws++
		case rec.WinnerID == a:
			h2h.Wrestler1Wins++
		case rec.WinnerID == b:
			h2h.Wrestler2Wins++
		}
		h2h.Matches = append(h2h.Matches, rec)
	}

	SortNewestFirst(h2h.Matches)
	if limit > 0 && len(h2h.Matches) > limit {
		h2h.Matches = h2h.Matches[:limit]
	}
	return h2h
}

// MergeHistory combines the per-slot query results for one wrestler into a
// single deduplicated list, newest first, capped at limit when limit > 0.
func MergeHistory(limit int, slots ...[]models.MatchRecord) []models.MatchRecord {
	seen := make(map[string]struct{})
	merged := []models.MatchRecord{}
	for _, slot := range slots {
		for _, rec := range slot {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			merged = append(merged, rec)
		}
	}

	SortNewestFirst(merged)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// SortNewestFirst orders records by CreatedAt descending. Records from the
// same moment, such as one card, fall back to the later write first.
func SortNewestFirst(records []models.MatchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.Seq != b.Seq {
			return a.Seq > b.Seq
		}
		return a.ID > b.ID
	})
}
