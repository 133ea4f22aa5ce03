package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/infrastructure/i18n"
)

// T traduz uma chave no idioma da requisição
// Uso: dto.T(c, "error.not_found.detail", map[string]interface{}{"Resource": "Pedido"})
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	value, exists := c.Get(i18n.ServiceContextKey)
	if !exists {
		// sem serviço i18n a chave é devolvida como está
		return key
	}

	service, ok := value.(*i18n.Service)
	if !ok {
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(i18n.LanguageContextKey); lang != "" {
		return lang
	}
	return "pt-BR"
}
