// Package i18n holds the user facing messages of the portal in English and Chinese.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

const (
	English = "en"
	Chinese = "zh"
)

var supported = []language.Tag{language.Chinese, language.English}

var matcher = language.NewMatcher(supported)

// Negotiate picks a locale from an explicit lang value first and the
// Accept-Language header second. Anything unmatched yields fallback.
func Negotiate(lang, acceptLanguage, fallback string) string {
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			if locale, ok := match(tag); ok {
				return locale
			}
		}
	}

	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if locale, ok := match(tags...); ok {
				return locale
			}
		}
	}
	return Normalize(fallback)
}

func match(tags ...language.Tag) (string, bool) {
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	if supported[index] == language.English {
		return English, true
	}
	return Chinese, true
}

// Normalize maps any locale string onto a supported locale, Chinese by default
func Normalize(locale string) string {
	if locale == English {
		return English
	}
	if tag, err := language.Parse(locale); err == nil {
		if base, _ := tag.Base(); base.String() == English {
			return English
		}
	}
	return Chinese
}

// T returns the message for key in locale, formatted with args. Missing
// translations fall back to English and then to the key itself.
func T(locale, key string, args ...interface{}) string {
	msg, ok := messages[Normalize(locale)][key]
	if !ok {
		if msg, ok = messages[English][key]; !ok {
			msg = key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key has a translation
func Has(key string) bool {
	_, ok := messages[English][key]
	return ok
}
