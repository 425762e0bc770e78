package server

import (
	"html/template"
	"math"
	"strings"

	"plug-explorer/src/i18n"
	"plug-explorer/src/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// pageView is what home.html renders.
type pageView struct {
	Lang     string
	Snapshot models.MHomeSnapshot
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"t":       i18n.Lookup,
		"number":  formatNumber,
		"percent": formatPercent,
		"locales": i18n.Locales,
	}
}

// -----------------------------------------------------------------------------

// formatNumber groups the integer part of a decimal string ("1234567.5" becomes
// "1,234,567.5"). Anything that is not a number is returned unchanged.
func formatNumber(value string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return value
	}

	// Chain amounts in base units overflow int64, so group the big integer part.
	whole := d.Truncate(0)
	grouped := humanize.BigComma(whole.Abs().BigInt())
	if d.Sign() < 0 {
		grouped = "-" + grouped
	}

	text := d.String()
	if i := strings.IndexByte(text, '.'); i >= 0 {
		grouped += text[i:]
	}
	return grouped
}

// -----------------------------------------------------------------------------

// formatPercent renders a ratio (0.0123) as "1.23%". Non-finite ratios render as
// "0.00%".
func formatPercent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(2) + "%"
}
