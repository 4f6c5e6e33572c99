package document

import (
	"strings"

	"docsync/internal/api"
)

// ShouldUpdate reports whether fetched has to be written over cached.
//
// A missing cache entry always needs a write. An existing entry is replaced
// only when the ContextIDs differ, compared case-insensitively; payloads are
// never compared. A nil fetched document never causes a write.
func ShouldUpdate(cached, fetched *api.ServiceDocument) bool {
	if fetched == nil {
		return false
	}
	if cached == nil {
		return true
	}
	return !strings.EqualFold(cached.ContextID, fetched.ContextID)
}

// Change classifies the outcome of a diff for logging and metrics.
type Change string

const (
	ChangeNone    Change = "unchanged"
	ChangeAdded   Change = "added"
	ChangeUpdated Change = "updated"
)

// Classify is ShouldUpdate with the reason attached.
func Classify(cached, fetched *api.ServiceDocument) Change {
	switch {
	case !ShouldUpdate(cached, fetched):
		return ChangeNone
	case cached == nil:
		return ChangeAdded
	default:
		return ChangeUpdated
	}
}
