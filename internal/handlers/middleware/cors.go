package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS configura CORS para a aplicação. allowedOrigins é uma lista separada por
// vírgulas; "*" libera qualquer origem e uma lista vazia bloqueia todas.
func CORS(allowedOrigins string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		ExposeHeaders:    []string{"Refresh", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			config.AllowAllOrigins = true
			config.AllowCredentials = false
		default:
			config.AllowOrigins = append(config.AllowOrigins, origin)
		}
	}

	if config.AllowAllOrigins {
		config.AllowOrigins = nil
	} else if len(config.AllowOrigins) == 0 {
		config.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(config)
}
