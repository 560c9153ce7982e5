package session

import (
	"errors"

	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
)

// Códigos devolvidos pela API
const (
	CodeMissingOwner    = apiErrors.ErrMissingOwner
	CodeSessionNotFound = apiErrors.ErrSessionNotFound
	CodeInvalidToken    = apiErrors.ErrInvalidToken
	CodeInvalidTheme    = apiErrors.ErrInvalidTheme
)

var (
	ErrMissingOwner    = errors.New("dono da sessão é obrigatório")
	ErrSessionNotFound = errors.New("sessão não encontrada")
	ErrInvalidToken    = errors.New("token de sessão inválido")
	ErrExpiredToken    = errors.New("token de sessão expirado")
	ErrInvalidTheme    = errors.New("tema inválido")
)
