package model

// Language is the preferred language for a group's invitation.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageItalian Language = "it"
)

// AllLanguages is the fixed set of supported languages.
var AllLanguages = []Language{LanguageEnglish, LanguageFrench, LanguageItalian}

// ValidLanguage reports whether l is a supported language code.
func ValidLanguage(l Language) bool {
	for _, known := range AllLanguages {
		if l == known {
			return true
		}
	}
	return false
}
