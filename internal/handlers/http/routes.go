package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/handlers/middleware"
)

// Handlers agrupa os handlers da API v1
type Handlers struct {
	Profile *ProfileHandler
	Pedido  *PedidoHandler
	User    *UserHandler
	Stream  *StreamHandler
}

// RouteOptions contém as dependências dos middlewares de rota
type RouteOptions struct {
	Verifier      middleware.TokenVerifier
	Loader        middleware.ProfileLoader
	RedirectPath  string
	RedirectDelay time.Duration
	Logger        ports.Logger
}

// RegisterRoutes registra as rotas da API no grupo informado
func RegisterRoutes(v1 *gin.RouterGroup, h Handlers, opts RouteOptions) {
	// o stream resolve o perfil por conta própria, a cada evento de sessão
	v1.GET("/profile/stream", h.Stream.Stream)

	requireRole := func(role entities.Role) gin.HandlerFunc {
		return middleware.RequireRole(role, opts.RedirectPath, opts.RedirectDelay)
	}

	api := v1.Group("", middleware.ResolveProfile(opts.Verifier, opts.Loader, opts.Logger))
	{
		api.GET("/me", h.Profile.GetMe)
		api.PATCH("/me", h.Profile.UpdateMe)

		api.GET("/pedidos", requireRole(entities.RoleEntregador), h.Pedido.ListPedidos)

		usuarios := api.Group("/usuarios", requireRole(entities.RoleAdmin))
		{
			usuarios.GET("", h.User.ListUsers)
			usuarios.GET("/:id", h.User.GetUser)
		}
	}
}
