package domain

import "errors"

// ErrDataUnavailable indica que não existe snapshot para a janela solicitada (NotFound)
var ErrDataUnavailable = errors.New("dados indisponíveis para a janela solicitada")
