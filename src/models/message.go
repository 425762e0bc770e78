package models

// -----------------------------------------------------------------------------
// WebSocket messages
// -----------------------------------------------------------------------------

// MPageMessage is pushed to page sessions. Type is "INITIAL" on connect, then
// "UPDATE", "ALERT", "SEARCH" or "LANGUAGE".
type MPageMessage struct {
	Type      string         `json:"type"`
	Language  string         `json:"language,omitempty"`
	Snapshot  *MHomeSnapshot `json:"snapshot,omitempty"`
	Alert     *MAlert        `json:"alert,omitempty"`
	Search    *MSearchResult `json:"search,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// MClientCommand is sent by page sessions.
type MClientCommand struct {
	Command  string `json:"command"` // "search" | "language"
	Query    string `json:"query"`
	Language string `json:"language"`
}
