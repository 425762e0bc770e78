package utils

import (
	"sync"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Process-wide registry of issued row/cell keys
// -----------------------------------------------------------------------------

var (
	onlyIDs   = make(map[string]struct{})
	onlyIDsMu sync.Mutex
)

// GetOnlyID returns a key never handed out before in this process (until deleted).
func GetOnlyID() string {
	onlyIDsMu.Lock()
	defer onlyIDsMu.Unlock()

	for {
		id := uuid.NewString()
		if _, taken := onlyIDs[id]; !taken {
			onlyIDs[id] = struct{}{}
			return id
		}
	}
}

// -----------------------------------------------------------------------------

// DelOnlyID releases ids so the registry does not grow with every poll.
func DelOnlyID(ids ...string) {
	onlyIDsMu.Lock()
	defer onlyIDsMu.Unlock()

	for _, id := range ids {
		delete(onlyIDs, id)
	}
}

// -----------------------------------------------------------------------------

// VerifyOnlyID reports whether id is currently registered.
func VerifyOnlyID(id string) bool {
	onlyIDsMu.Lock()
	defer onlyIDsMu.Unlock()

	_, ok := onlyIDs[id]
	return ok
}
