package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var embeddedLocales embed.FS

const localesDir = "locales"

type catalog struct {
	localizer  *goi18n.Localizer
	dictionary map[string]string
}

// Store resolve chaves de tradução por idioma.
// Cada idioma tem o próprio bundle, então uma chave ausente nunca é buscada em outro idioma.
type Store struct {
	catalogs map[domain.LanguageCode]*catalog
}

// NewStore carrega os dicionários embutidos de todos os idiomas disponíveis
func NewStore() (*Store, error) {
	return NewStoreFS(embeddedLocales, localesDir)
}

// NewStoreFS carrega um arquivo <idioma>.toml por idioma disponível a partir de fsys
func NewStoreFS(fsys fs.FS, dir string) (*Store, error) {
	s := &Store{catalogs: make(map[domain.LanguageCode]*catalog, len(domain.AvailableLanguages))}

	for _, lang := range domain.AvailableLanguages {
		tag, err := language.Parse(lang.String())
		if err != nil {
			return nil, fmt.Errorf("i18n: idioma inválido %s: %w", lang, err)
		}

		bundle := goi18n.NewBundle(tag)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		file, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, lang.String()+".toml"))
		if err != nil {
			return nil, fmt.Errorf("i18n: erro ao carregar dicionário %s: %w", lang, err)
		}

		dictionary := make(map[string]string, len(file.Messages))
		for _, message := range file.Messages {
			dictionary[message.ID] = message.Other
		}

		s.catalogs[lang] = &catalog{
			localizer:  goi18n.NewLocalizer(bundle, lang.String()),
			dictionary: dictionary,
		}

		logrus.WithFields(logrus.Fields{
			"language": lang,
			"keys":     len(dictionary),
		}).Debug("Dicionário carregado")
	}

	return s, nil
}

// Translate retorna o valor de key no dicionário de lang ou a própria key
func (s *Store) Translate(key string, lang domain.LanguageCode) string {
	c, ok := s.catalogs[lang]
	if !ok {
		return key
	}

	if _, ok := c.dictionary[key]; !ok {
		logrus.WithFields(logrus.Fields{
			"language": lang,
			"key":      key,
		}).Debug("Tradução ausente, usando a chave")
		return key
	}

	value, err := c.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Debug("Falha ao localizar mensagem")
		return key
	}

	return value
}

// Dictionary retorna uma cópia do dicionário plano de lang
func (s *Store) Dictionary(lang domain.LanguageCode) (map[string]string, error) {
	c, ok := s.catalogs[lang]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	out := make(map[string]string, len(c.dictionary))
	for k, v := range c.dictionary {
		out[k] = v
	}
	return out, nil
}

// Languages retorna os idiomas carregados na ordem de domain.AvailableLanguages
func (s *Store) Languages() []domain.LanguageCode {
	out := make([]domain.LanguageCode, 0, len(s.catalogs))
	for _, lang := range domain.AvailableLanguages {
		if _, ok := s.catalogs[lang]; ok {
			out = append(out, lang)
		}
	}
	return out
}

func (s *Store) IsSupported(code domain.LanguageCode) bool {
	_, ok := s.catalogs[code]
	return ok
}
