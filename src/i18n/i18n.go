// Package i18n serves the static zh-CN and en-US dictionaries.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	ZhCN = "zh-CN"
	EnUS = "en-US"
)

//go:embed locales/*.json
var localeFS embed.FS

var dictionaries = mustLoad(ZhCN, EnUS)

func mustLoad(locales ...string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(locales))
	for _, loc := range locales {
		raw, err := localeFS.ReadFile("locales/" + loc + ".json")
		if err != nil {
			panic(fmt.Sprintf("i18n: missing dictionary %s: %v", loc, err))
		}
		dict := make(map[string]string)
		if err := json.Unmarshal(raw, &dict); err != nil {
			panic(fmt.Sprintf("i18n: bad dictionary %s: %v", loc, err))
		}
		out[loc] = dict
	}
	return out
}

// Lookup returns the text for key in locale, or "" when either is unknown.
func Lookup(locale, key string) string {
	return dictionaries[locale][key]
}

// Supported reports whether locale has a dictionary.
func Supported(locale string) bool {
	_, ok := dictionaries[locale]
	return ok
}

// Locales lists the available locale tags.
func Locales() []string {
	out := make([]string, 0, len(dictionaries))
	for loc := range dictionaries {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// All returns the text for key in every locale.
func All(key string) map[string]string {
	out := make(map[string]string, len(dictionaries))
	for loc, dict := range dictionaries {
		out[loc] = dict[key]
	}
	return out
}

// Translator is bound to one locale.
type Translator struct {
	Locale string
}

func (t Translator) T(key string) string {
	return Lookup(t.Locale, key)
}
