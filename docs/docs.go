// Package docs registra o documento OpenAPI servido em /swagger/.
// Regenerar com: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "description": "Recebe email/senha, verifica a validade e emite um JSON Web Token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Autentica um usuário e retorna um JWT",
                "parameters": [
                    {"description": "Credenciais do usuário (email e senha)", "name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token JWT emitido", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "401": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Lista os usuários",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Cria um usuário comum, hasheia a senha e salva no banco de dados.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Cadastra um novo usuário",
                "parameters": [
                    {"description": "Dados de cadastro", "name": "registration", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}
                ],
                "responses": {
                    "201": {"description": "Usuário criado com sucesso", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Payload inválido ou senha fora da política", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Email já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/games": {
            "get": {
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Lista o catálogo de jogos",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Game"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Cadastra um jogo",
                "parameters": [
                    {"description": "Dados do jogo", "name": "game", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.GameInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Game"}},
                    "400": {"description": "Nome, ano ou preço inválidos", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/promotions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["promotions"],
                "summary": "Lista as promoções",
                "parameters": [
                    {"type": "boolean", "description": "Somente promoções vigentes", "name": "active", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Promotion"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "O desconto deve estar entre 10 e 90 e a validade deve ser posterior ao instante atual.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["promotions"],
                "summary": "Cadastra uma promoção",
                "parameters": [
                    {"description": "Dados da promoção", "name": "promotion", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.PromotionInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Promotion"}},
                    "409": {"description": "Nome já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "O valor é calculado a partir do preço do jogo e da promoção, que precisa estar vigente na data do pedido.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Cria um pedido para o usuário autenticado",
                "parameters": [
                    {"description": "Jogo e promoção opcional (user_id é ignorado)", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.OrderInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "404": {"description": "Jogo ou promoção inexistente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "422": {"description": "Promoção expirada ou referência inválida", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Com o parâmetro email, somente os pedidos daquele usuário.",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Lista os pedidos",
                "parameters": [
                    {"type": "string", "description": "Email do usuário", "name": "email", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}}
                }
            }
        },
        "/orders/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Lista os pedidos do usuário autenticado",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 422},
                "category": {"type": "string", "example": "EXPIRED_PROMOTION"},
                "message": {"type": "string"}
            }
        },
        "domain.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "admin@fiapcloudgames.com.br"},
                "password": {"type": "string", "example": "Admin@123"}
            }
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "token_type": {"type": "string", "example": "Bearer"},
                "user_id": {"type": "integer"},
                "role": {"type": "string", "example": "Admin"}
            }
        },
        "domain.UserRegistration": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "DAVI DA SILVA"},
                "email": {"type": "string", "example": "davi@uol.com.br"},
                "password": {"type": "string", "example": "123456$A"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "example": "U"}
            }
        },
        "domain.GameInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "THE LEGEND OF GO"},
                "release_year": {"type": "integer", "example": 2023},
                "base_price": {"type": "string", "example": "100.00"}
            }
        },
        "domain.Game": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string"},
                "name": {"type": "string"},
                "release_year": {"type": "integer"},
                "base_price": {"type": "string", "example": "100.00"}
            }
        },
        "domain.PromotionInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "BLACK FRIDAY"},
                "discount": {"type": "integer", "example": 20},
                "valid_until": {"type": "string", "example": "2026-11-30T23:59:59Z"}
            }
        },
        "domain.Promotion": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string"},
                "name": {"type": "string"},
                "discount": {"type": "integer"},
                "valid_until": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "domain.OrderInput": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer", "example": 1},
                "game_id": {"type": "integer", "example": 1},
                "promotion_id": {"type": "integer", "example": 1}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string"},
                "user_id": {"type": "integer"},
                "game_id": {"type": "integer"},
                "promotion_id": {"type": "integer"},
                "order_value": {"type": "string", "example": "100.00"},
                "discount_value": {"type": "string", "example": "20.00"},
                "paid_value": {"type": "string", "example": "80.00"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo guarda as informações exportadas do documento.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "FiapCloudGames API",
	Description:      "API de venda de jogos: usuários, catálogo, promoções e pedidos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
