package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// DetermineLocale resolves the locale for a request. An explicit query value
// wins when supported, then the Accept-Language header, then def. Supported
// values are base languages such as "en" or "he"; legacy codes like "iw"
// resolve to their modern form.
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	names := make([]string, 0, len(supported))
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(s)
		if err != nil {
			continue
		}
		names = append(names, strings.ToLower(s))
		tags = append(tags, t)
	}
	if len(tags) == 0 {
		if def != "" {
			return strings.ToLower(def)
		}
		return "en"
	}
	matcher := language.NewMatcher(tags)

	pick := func(desired ...language.Tag) (string, bool) {
		if len(desired) == 0 {
			return "", false
		}
		_, idx, conf := matcher.Match(desired...)
		if conf == language.No {
			return "", false
		}
		return names[idx], true
	}

	if t, err := language.Parse(strings.TrimSpace(queryLang)); err == nil && queryLang != "" {
		if v, ok := pick(t); ok {
			return v
		}
	}
	if desired, _, err := language.ParseAcceptLanguage(acceptLang); err == nil {
		if v, ok := pick(desired...); ok {
			return v
		}
	}
	def = strings.ToLower(def)
	for _, n := range names {
		if n == def {
			return n
		}
	}
	return names[0]
}
