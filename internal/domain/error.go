package domain

// InternalErrorMessage é a mensagem devolvida ao cliente em falhas não tratadas.
const InternalErrorMessage = "Erro interno."

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"422"`
	Category string `json:"category" example:"EXPIRED_PROMOTION"`
	Message  string `json:"message" example:"Promoção expirada: Promoção expirada para a data do pedido."`
}

// MessageResponse é o corpo das respostas de sucesso sem conteúdo de entidade.
type MessageResponse struct {
	Message string `json:"message" example:"Promoção excluída."`
}
