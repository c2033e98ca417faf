package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName renders a snake_case CRM identifier as human-readable title
// text, e.g. "key_opinion_leader" -> "Key Opinion Leader".
func DisplayName(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
