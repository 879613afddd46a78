package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/agenda_bot/internal/auth"
	"github.com/go-chi/chi/v5"
)

// TokenVerifier проверяет bearer токен и возвращает id специалиста
type TokenVerifier interface {
	Parse(token string) (int64, error)
}

// requireProfessional пропускает запрос только с токеном того же специалиста, что и {id} в пути
func requireProfessional(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid professional id"})
				return
			}

			header := r.Header.Get("Authorization")
			if tokens == nil || !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}
			subject, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
			if subject != id {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "token does not belong to this professional"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

var _ TokenVerifier = (*auth.Tokens)(nil)
