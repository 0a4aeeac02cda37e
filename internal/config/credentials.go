package config

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// CredentialTier identifica qual chave do Supabase está em uso
type CredentialTier string

const (
	TierServiceRole CredentialTier = "service_role"
	TierAnon        CredentialTier = "anon"
	TierNone        CredentialTier = ""
)

// ResolveStorageKey escolhe a chave usada no storage: service role tem prioridade
// (necessária para criar o bucket), anon é o fallback.
func ResolveStorageKey(s Supabase) (string, CredentialTier) {
	if s.ServiceRoleKey != "" {
		if role := KeyRole(s.ServiceRoleKey); role != "" && role != string(TierServiceRole) {
			logrus.Warnf("SUPABASE_SERVICE_ROLE_KEY possui role %q; criação de bucket pode ser negada", role)
		}
		return s.ServiceRoleKey, TierServiceRole
	}

	if s.AnonKey != "" {
		logrus.Warn("Usando SUPABASE_ANON_KEY: o bucket de comprovantes precisa existir previamente")
		return s.AnonKey, TierAnon
	}

	return "", TierNone
}

// KeyRole lê a claim "role" de uma chave JWT do Supabase sem validar a assinatura.
// Chaves que não são JWT retornam string vazia.
func KeyRole(key string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return ""
	}

	role, _ := claims["role"].(string)
	return role
}
