package domain

// LanguageCode identifica um idioma suportado pelo painel (ex.: pt-BR)
type LanguageCode string

const (
	LanguagePortugueseBR LanguageCode = "pt-BR"
	LanguageEnglishUS    LanguageCode = "en-US"
	LanguageSpanishES    LanguageCode = "es-ES"

	DefaultLanguage = LanguagePortugueseBR
)

// AvailableLanguages lista os idiomas com dicionário disponível
var AvailableLanguages = []LanguageCode{
	LanguagePortugueseBR,
	LanguageEnglishUS,
	LanguageSpanishES,
}

// IsSupported verifica se o código pertence a AvailableLanguages
func (c LanguageCode) IsSupported() bool {
	for _, lang := range AvailableLanguages {
		if lang == c {
			return true
		}
	}
	return false
}

func (c LanguageCode) String() string {
	return string(c)
}

// Theme é o tema de cores escolhido pelo usuário
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Chaves usadas no repositório de preferências
const (
	PreferenceLanguage = "language"
	PreferenceTheme    = "theme"
)
