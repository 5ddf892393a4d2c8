package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"fiapcloudgames/internal/api/game"
	"fiapcloudgames/internal/api/order"
	"fiapcloudgames/internal/api/promotion"
	"fiapcloudgames/internal/api/user"
	"fiapcloudgames/internal/domain"
	"fiapcloudgames/internal/pkg/cache"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/pkg/middleware"
)

// Handlers agrupa os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	User      *user.Handler
	Game      *game.Handler
	Promotion *promotion.Handler
	Order     *order.Handler
}

// RateLimit configura o limitador global de requisições.
type RateLimit struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, tokenSvc middleware.TokenValidator, cacheClient cache.Client, limit RateLimit, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	adminOnly := middleware.PermissionMiddleware(domain.ClaimRoleAdmin)
	anyRole := middleware.PermissionMiddleware(domain.ClaimRoleAdmin, domain.ClaimRoleUser)

	// authenticated exige token válido; admin exige também a role Admin.
	authenticated := func(next http.HandlerFunc) http.HandlerFunc { return auth(anyRole(next)) }
	admin := func(next http.HandlerFunc) http.HandlerFunc { return auth(adminOnly(next)) }

	// --- 1. Health Check e Documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Autenticação e Usuários ---
	mux.HandleFunc("POST /v1/auth/login", h.User.LoginUserHandler)
	mux.HandleFunc("POST /v1/users", h.User.RegisterUserHandler)
	mux.HandleFunc("POST /v1/users/admin", admin(h.User.RegisterAdminHandler))
	mux.HandleFunc("GET /v1/users", admin(h.User.ListUsersHandler))
	mux.HandleFunc("GET /v1/users/{id}", admin(h.User.GetUserHandler))
	mux.HandleFunc("PUT /v1/users/{id}", admin(h.User.UpdateUserHandler))
	mux.HandleFunc("DELETE /v1/users/{id}", admin(h.User.DeleteUserHandler))

	// --- 3. Jogos ---
	mux.HandleFunc("GET /v1/games", h.Game.ListGamesHandler)
	mux.HandleFunc("GET /v1/games/{id}", h.Game.GetGameHandler)
	mux.HandleFunc("POST /v1/games", admin(h.Game.CreateGameHandler))
	mux.HandleFunc("PUT /v1/games/{id}", admin(h.Game.UpdateGameHandler))
	mux.HandleFunc("DELETE /v1/games/{id}", admin(h.Game.DeleteGameHandler))

	// --- 4. Promoções ---
	mux.HandleFunc("GET /v1/promotions", h.Promotion.ListPromotionsHandler)
	mux.HandleFunc("GET /v1/promotions/{id}", h.Promotion.GetPromotionHandler)
	mux.HandleFunc("POST /v1/promotions", admin(h.Promotion.CreatePromotionHandler))
	mux.HandleFunc("PUT /v1/promotions/{id}", admin(h.Promotion.UpdatePromotionHandler))
	mux.HandleFunc("DELETE /v1/promotions/{id}", admin(h.Promotion.DeletePromotionHandler))

	// --- 5. Pedidos ---
	mux.HandleFunc("POST /v1/orders", authenticated(h.Order.PlaceOrderHandler))
	mux.HandleFunc("GET /v1/orders/me", authenticated(h.Order.MyOrdersHandler))
	mux.HandleFunc("POST /v1/orders/on-behalf", admin(h.Order.PlaceOrderOnBehalfHandler))
	mux.HandleFunc("GET /v1/orders/report", admin(h.Order.ReportHandler))
	mux.HandleFunc("GET /v1/orders", admin(h.Order.ListOrdersHandler))
	mux.HandleFunc("GET /v1/orders/{id}", admin(h.Order.GetOrderHandler))
	mux.HandleFunc("PUT /v1/orders/{id}", admin(h.Order.UpdateOrderHandler))
	mux.HandleFunc("DELETE /v1/orders/{id}", admin(h.Order.DeleteOrderHandler))

	// --- 6. Middlewares Globais ---
	// Ordem de execução: Recovery -> RequestLogger -> RateLimiter -> rota.
	var handler http.Handler = mux
	handler = middleware.RateLimiter(cacheClient, limit.MaxRequests, limit.Period, log)(handler)
	handler = middleware.RequestLogger(log)(handler)
	handler = middleware.Recovery(log)(handler)

	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
