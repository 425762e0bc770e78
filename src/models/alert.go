package models

// MAlert is a transient toast shown to the user.
type MAlert struct {
	Message string `json:"message"`
	Time    int    `json:"time"` // milliseconds on screen
	Type    string `json:"type"`
}

// MSearchResult is where a non-empty search sends the user.
type MSearchResult struct {
	Query string `json:"query"`
	Link  string `json:"link"`
}
