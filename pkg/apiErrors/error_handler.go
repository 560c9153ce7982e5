package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de sessão
	ErrMissingOwner     = "SESSION_001" // Dono da sessão ausente
	ErrSessionNotFound  = "SESSION_002" // Sessão não encontrada ou encerrada
	ErrInvalidToken     = "SESSION_003" // Token de sessão inválido ou expirado
	ErrInvalidTheme     = "SESSION_004" // Tema fora da lista aceita
	ErrMissingSessionID = "SESSION_005" // Requisição sem token de sessão

	// Erros de idioma
	ErrUnsupportedLanguage = "I18N_001" // Idioma fora da lista disponível

	// Erros de KPIs
	ErrKPIDataUnavailable = "KPI_001" // Sem dados para a janela pedida
	ErrKPITimeout         = "KPI_002" // Busca excedeu o tempo limite
	ErrKPIFetchFailed     = "KPI_003" // Falha na fonte de dados

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrNotFound            = "VAL_004" // Rota inexistente
	ErrMethodNotAllowed    = "VAL_005" // Método não aceito pela rota

	// Erros do servidor
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrExternalService = "SRV_003" // Erro em serviço externo
	ErrUnavailable     = "SRV_004" // Recurso temporariamente indisponível
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrMissingOwner:        http.StatusBadRequest,
	ErrSessionNotFound:     http.StatusNotFound,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrInvalidTheme:        http.StatusBadRequest,
	ErrMissingSessionID:    http.StatusUnauthorized,
	ErrUnsupportedLanguage: http.StatusBadRequest,
	ErrKPIDataUnavailable:  http.StatusNotFound,
	ErrKPITimeout:          http.StatusGatewayTimeout,
	ErrKPIFetchFailed:      http.StatusBadGateway,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrNotFound:            http.StatusNotFound,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrUnavailable:         http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor retorna o status HTTP associado ao código
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
