package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	"github.com/rafabene/entregas-backend/internal/handlers/middleware"
	"github.com/rafabene/entregas-backend/internal/infrastructure/auth/supabase"
	"github.com/rafabene/entregas-backend/internal/infrastructure/i18n"
	"github.com/rafabene/entregas-backend/internal/infrastructure/logging"
	"github.com/rafabene/entregas-backend/internal/services"
	"github.com/rafabene/entregas-backend/internal/testutil"
)

const (
	testSecret   = "super-secret-jwt-token-with-at-least-32-characters"
	testAudience = "authenticated"

	adminID      = "a0000000-0000-4000-8000-000000000001"
	gerenteID    = "a0000000-0000-4000-8000-000000000002"
	entregadorID = "a0000000-0000-4000-8000-000000000003"
	visitanteID  = "a0000000-0000-4000-8000-000000000004"
	semPerfilID  = "a0000000-0000-4000-8000-000000000005"

	testRedirectDelay = 20 * time.Millisecond
)

type testEnv struct {
	router  *gin.Engine
	users   *testutil.UserRepository
	lojas   *testutil.LojaUsuarioRepository
	pedidos *testutil.PedidoRepository
	feed    *testutil.MembershipFeed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dto.RegisterJSONTagNames()

	logger := logging.NewNopLogger()

	i18nService, err := i18n.NewEmbeddedService("en")
	if err != nil {
		t.Fatalf("failed to initialize i18n: %v", err)
	}

	env := &testEnv{
		users: testutil.NewUserRepository(
			&entities.User{ID: adminID, Nome: "Ana Admin", Admin: true},
			&entities.User{ID: gerenteID, Nome: "Gil Gerente"},
			&entities.User{ID: entregadorID, Nome: "Edu Entregador", Username: "edu"},
			&entities.User{ID: visitanteID, Nome: "Vera Visitante"},
		),
		lojas: testutil.NewLojaUsuarioRepository(
			&entities.LojaUsuario{UsuarioID: gerenteID, LojaID: "loja-1", Funcao: entities.FuncaoGerente, Status: entities.StatusAtivo},
			&entities.LojaUsuario{UsuarioID: entregadorID, LojaID: "loja-1", Funcao: entities.FuncaoEntregador, Status: entities.StatusAtivo},
			&entities.LojaUsuario{UsuarioID: entregadorID, LojaID: "loja-2", Funcao: entities.FuncaoEntregador, Status: entities.StatusAtivo},
			&entities.LojaUsuario{UsuarioID: entregadorID, LojaID: "loja-3", Funcao: entities.FuncaoEntregador, Status: "inativo"},
		),
		pedidos: &testutil.PedidoRepository{Pedidos: []*entities.Pedido{
			{ID: "p1", LojaID: "loja-1", Status: entities.StatusPedidoPendente},
			{ID: "p2", LojaID: "loja-2", Status: entities.StatusPedidoPendente},
			{ID: "p3", LojaID: "loja-3", Status: entities.StatusPedidoPendente},
			{ID: "p4", LojaID: "loja-1", Status: entities.StatusPedidoEntregue},
		}},
		feed: testutil.NewMembershipFeed(),
	}

	verifier := supabase.NewTokenVerifier(testSecret, testAudience, "")
	loader := services.NewProfileLoader(env.users, env.lojas, logger)
	userService := services.NewUserService(env.users, &testutil.UnitOfWork{}, logger)
	pedidoService := services.NewPedidoService(env.pedidos, logger)

	env.router = gin.New()
	env.router.Use(middleware.NewI18nMiddleware(i18nService).DetectLanguage())

	RegisterRoutes(env.router.Group("/api/v1"), Handlers{
		Profile: NewProfileHandler(userService),
		Pedido:  NewPedidoHandler(pedidoService),
		User:    NewUserHandler(userService),
		Stream: NewStreamHandler(verifier, loader, env.feed, StreamOptions{
			RedirectPath:  "/",
			RedirectDelay: testRedirectDelay,
		}, logger),
	}, RouteOptions{
		Verifier:      verifier,
		Loader:        loader,
		RedirectPath:  "/",
		RedirectDelay: testRedirectDelay,
		Logger:        logger,
	})

	return env
}

func signToken(t *testing.T, subject string) string {
	t.Helper()

	now := time.Now()
	claims := supabase.Claims{
		Email: "teste@loja.com.br",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("falha ao assinar token: %v", err)
	}
	return signed
}

// do executa a requisição; subject vazio envia sem token
func (e *testEnv) do(t *testing.T, method, target, subject string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("falha ao serializar body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, subject))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("resposta não é JSON válido: %v (%s)", err, w.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("esperava status %d, obteve %d: %s", status, w.Code, w.Body.String())
	}
}
