package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	apperror "fiapcloudgames/internal/errors"
	"fiapcloudgames/internal/pkg/cache"
	"fiapcloudgames/internal/pkg/logger"
)

// RateLimiter limita cada IP a `limit` requisições por janela de `duration`.
// Se o cache falhar, a requisição segue: o limite não deve derrubar a API.
func RateLimiter(client cache.Client, limit int, duration time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			count, err := client.Incr(r.Context(), key, duration)
			if err != nil {
				log.Warn("Falha ao consultar o limite de requisições. Seguindo sem limite.", map[string]interface{}{"ip": ip, "error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(duration.Seconds())))
				writeError(w, apperror.NewRateLimitError("Limite de requisições excedido."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
