package middleware

import (
	"testing"
	"testing/fstest"

	"github.com/rafabene/entregas-backend/internal/infrastructure/i18n"
)

func setupTestI18n(t *testing.T) *i18n.Service {
	t.Helper()

	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{
			"welcome": "Welcome",
			"error.forbidden.title": "Access denied",
			"error.forbidden.detail": "Requires {{.Role}}, redirecting to {{.RedirectTo}}",
			"error.unauthorized.title": "Not signed in"
		}`)},
		"locales/pt-BR.json": {Data: []byte(`{
			"welcome": "Bem-vindo",
			"error.forbidden.title": "Acesso negado",
			"error.forbidden.detail": "Exige {{.Role}}, redirecionando para {{.RedirectTo}}",
			"error.unauthorized.title": "Não autenticado"
		}`)},
		"locales/es.json": {Data: []byte(`{"welcome": "Bienvenido"}`)},
	}

	service, err := i18n.NewServiceFS(fsys, "locales", "en")
	if err != nil {
		t.Fatalf("failed to initialize i18n service: %v", err)
	}

	return service
}
