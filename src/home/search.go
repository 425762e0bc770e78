package home

import (
	"regexp"
	"strings"

	"plug-explorer/src/models"
)

const (
	EmptySearchMessage = "没有内容"
	alertDurationMs    = 5000
)

var (
	blockNumberPattern = regexp.MustCompile(`^[0-9]+$`)
	blockHashPattern   = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
)

func EmptySearchAlert() models.MAlert {
	return models.MAlert{Message: EmptySearchMessage, Time: alertDurationMs, Type: "error"}
}

// ResolveSearch maps the search box text to a page link. ok is false for blank input.
func ResolveSearch(input string) (models.MSearchResult, bool) {
	query := strings.TrimSpace(input)
	if query == "" {
		return models.MSearchResult{}, false
	}

	var link string
	switch {
	case blockNumberPattern.MatchString(query):
		link = "./block/" + query
	case blockHashPattern.MatchString(query):
		link = "./block/" + query
	default:
		link = "./account/" + query
	}
	return models.MSearchResult{Query: query, Link: link}, true
}
