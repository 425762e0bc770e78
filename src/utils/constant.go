package utils

// -----------------------------------------------------------------------------

const (
	// TimeLayout is how block times are shown on the home page.
	TimeLayout = "2006-01-02 15:04:05"

	// Unix timestamps above this are taken to be in milliseconds.
	millisecondThreshold = 1e12
)
