package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carrega a chave administrativa em texto puro
const AdminKeyHeader = "X-Admin-Key"

// AdminKey protege rotas operacionais comparando o header com o hash bcrypt
// configurado. Sem hash configurado a rota fica fechada.
func AdminKey(keyHash string) func(http.Handler) http.Handler {
	hash := []byte(keyHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(hash) == 0 {
				logrus.WithField("path", r.URL.Path).Warn("Rota administrativa acessada sem ADMIN_KEY_HASH configurado")
				apiErrors.WriteError(w, apiErrors.ErrInvalidAdminKey, "Acesso administrativo desabilitado", nil)
				return
			}

			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				apiErrors.WriteError(w, apiErrors.ErrAdminKeyRequired, "Chave administrativa obrigatória", nil)
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
				logrus.WithField("path", r.URL.Path).Warn("Chave administrativa inválida")
				apiErrors.WriteError(w, apiErrors.ErrInvalidAdminKey, "Chave administrativa inválida", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
