package domain

import "strings"

// Locale selects the language of user-facing strings
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleKorean  Locale = "ko"
)

// ParseLocale maps a tag such as "ko-KR" or "en_US" to a supported Locale.
// Unknown or empty tags resolve to fallback.
func ParseLocale(tag string, fallback Locale) Locale {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case strings.HasPrefix(tag, string(LocaleKorean)):
		return LocaleKorean
	case strings.HasPrefix(tag, string(LocaleEnglish)):
		return LocaleEnglish
	default:
		return fallback
	}
}
