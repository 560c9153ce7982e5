package kpi

import (
	"context"
	"errors"
	"fmt"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
)

// Chaves de tradução exibidas no campo error do estado
const (
	MessageDataUnavailable = "error_data_unavailable"
	MessageTimeout         = "error_timeout"
	MessageFetchFailed     = "error_fetch_failed"
)

// Códigos de erro do carregador
const (
	CodeNotFound    = apiErrors.ErrKPIDataUnavailable
	CodeTimeout     = apiErrors.ErrKPITimeout
	CodeFetchFailed = apiErrors.ErrKPIFetchFailed
)

var (
	ErrTimeout      = errors.New("tempo limite excedido ao buscar métricas")
	ErrFetchFailed  = errors.New("falha ao buscar métricas")
	ErrLoaderClosed = errors.New("carregador de KPIs encerrado")
)

// LoadError descreve a falha de uma requisição de carga
type LoadError struct {
	Err        error  // Erro base
	Code       string // Código para a API
	Message    string // Chave de tradução exibível
	WindowDays int
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s (janela de %d dias)", e.Err.Error(), e.WindowDays)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsNotFound verifica se o erro representa ausência de dados para a janela
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrDataUnavailable)
}

func newLoadError(err error, windowDays int) *LoadError {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		return &LoadError{Err: err, Code: CodeNotFound, Message: MessageDataUnavailable, WindowDays: windowDays}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return &LoadError{Err: fmt.Errorf("%w: %v", ErrTimeout, err), Code: CodeTimeout, Message: MessageTimeout, WindowDays: windowDays}
	case errors.Is(err, ErrFetchFailed):
		return &LoadError{Err: err, Code: CodeFetchFailed, Message: MessageFetchFailed, WindowDays: windowDays}
	default:
		return &LoadError{Err: fmt.Errorf("%w: %w", ErrFetchFailed, err), Code: CodeFetchFailed, Message: MessageFetchFailed, WindowDays: windowDays}
	}
}
