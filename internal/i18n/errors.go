package i18n

import (
	"errors"

	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
)

// CodeUnsupportedLanguage é o código devolvido pela API para idiomas fora da lista
const CodeUnsupportedLanguage = apiErrors.ErrUnsupportedLanguage

var ErrUnsupportedLanguage = errors.New("idioma não suportado")
