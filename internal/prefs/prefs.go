// Package prefs resolves free-form language and country input into ISO codes.
//
// Input like "English", "en", "U.S.A." or "untied states" is normalized,
// looked up against known names, validated as a bare ISO code, and finally
// fuzzy-matched so close misspellings either resolve or produce a
// "did you mean" suggestion.
package prefs

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a resolved movie language preference.
type Language struct {
	Code string // ISO 639-1, e.g. "en"
	Name string // display name, e.g. "English"
}

// Country is a resolved country preference.
type Country struct {
	Code string // ISO 3166-1 alpha-2, e.g. "US"
	Name string // display name, e.g. "USA"
}

var languageCodes = map[string]string{
	"english":  "en",
	"spanish":  "es",
	"french":   "fr",
	"german":   "de",
	"italian":  "it",
	"japanese": "ja",
	"korean":   "ko",
	"chinese":  "zh",
	"hindi":    "hi",
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"hi": "Hindi",
}

var countryCodes = map[string]string{
	"usa":                      "US",
	"united states":            "US",
	"united states of america": "US",
	"uk":                       "GB",
	"united kingdom":           "GB",
	"great britain":            "GB",
	"canada":                   "CA",
	"france":                   "FR",
	"germany":                  "DE",
	"italy":                    "IT",
	"japan":                    "JP",
	"korea":                    "KR",
	"south korea":              "KR",
	"china":                    "CN",
	"india":                    "IN",
}

var countryNames = map[string]string{
	"US": "USA",
	"GB": "UK",
	"CA": "Canada",
	"FR": "France",
	"DE": "Germany",
	"IT": "Italy",
	"JP": "Japan",
	"KR": "Korea",
	"CN": "China",
	"IN": "India",
}

// Fuzzy candidates iterate in sorted order so ties resolve the same way
// on every run.
var (
	languageCandidates = sortedKeys(languageCodes)
	countryCandidates  = sortedKeys(countryCodes)
)

var codePattern = regexp.MustCompile(`^[a-z]{2,3}$`)

// ResolveLanguage turns user input into a Language.
// Accepts known names ("Japanese"), ISO 639 codes ("ja", "jpn") and close
// misspellings at high match confidence. Returns ErrEmpty for blank input
// and *UnknownError otherwise.
func ResolveLanguage(input string) (Language, error) {
	n := normalize(input)
	if n == "" {
		return Language{}, ErrEmpty
	}

	if code, ok := languageCodes[n]; ok {
		return Language{Code: code, Name: languageNames[code]}, nil
	}

	if codePattern.MatchString(n) {
		if base, err := language.ParseBase(n); err == nil {
			if code := base.String(); len(code) == 2 {
				return Language{Code: code, Name: languageName(code, base)}, nil
			}
		}
	}

	name, conf := bestMatch(n, languageCandidates)
	switch conf {
	case confidenceHigh:
		code := languageCodes[name]
		return Language{Code: code, Name: languageNames[code]}, nil
	case confidenceMedium, confidenceLow:
		return Language{}, &UnknownError{Kind: "language", Input: input, Suggestion: languageNames[languageCodes[name]]}
	}
	return Language{}, &UnknownError{Kind: "language", Input: input}
}

// ResolveCountry turns user input into a Country.
// Accepts known names ("USA", "United Kingdom"), ISO 3166-1 codes ("us",
// "gbr") and close misspellings at high match confidence.
func ResolveCountry(input string) (Country, error) {
	n := normalize(input)
	if n == "" {
		return Country{}, ErrEmpty
	}

	if code, ok := countryCodes[n]; ok {
		return Country{Code: code, Name: countryNames[code]}, nil
	}

	if codePattern.MatchString(n) {
		if region, err := language.ParseRegion(strings.ToUpper(n)); err == nil && region.IsCountry() {
			code := region.String()
			return Country{Code: code, Name: countryName(code, region)}, nil
		}
	}

	name, conf := bestMatch(n, countryCandidates)
	switch conf {
	case confidenceHigh:
		code := countryCodes[name]
		return Country{Code: code, Name: countryNames[code]}, nil
	case confidenceMedium, confidenceLow:
		return Country{}, &UnknownError{Kind: "country", Input: input, Suggestion: countryNames[countryCodes[name]]}
	}
	return Country{}, &UnknownError{Kind: "country", Input: input}
}

// languageName prefers the curated display name, falling back to CLDR data
// for codes outside the table.
func languageName(code string, base language.Base) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return strings.ToUpper(code)
}

func countryName(code string, region language.Region) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
