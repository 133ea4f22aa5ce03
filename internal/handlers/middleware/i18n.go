package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/infrastructure/i18n"
)

// As chaves vivem no pacote i18n para que dto possa lê-las sem importar middleware
const (
	LanguageContextKey    = i18n.LanguageContextKey
	I18nServiceContextKey = i18n.ServiceContextKey
)

// I18nMiddleware gerencia a detecção de idioma nas requisições
type I18nMiddleware struct {
	i18nService *i18n.Service
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{
		i18nService: i18nService,
	}
}

// DetectLanguage detecta o idioma da requisição: ?lang=, depois Accept-Language,
// depois o idioma padrão do serviço
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.i18nService)

		c.Next()
	}
}

// Resolve escolhe o idioma a partir do override explícito e do Accept-Language.
// Também é usado pelo stream, que negocia o idioma uma única vez na conexão.
func (m *I18nMiddleware) Resolve(override, acceptLanguage string) string {
	if override != "" && m.i18nService.IsLanguageSupported(override) {
		return override
	}
	if lang := m.parseAcceptLanguage(acceptLanguage); lang != "" {
		return lang
	}
	return m.i18nService.GetDefaultLanguage()
}

// parseAcceptLanguage analisa o header Accept-Language e retorna o melhor idioma suportado
// Exemplo: "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7" -> "pt-BR"
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	languages := strings.Split(acceptLang, ",")

	for _, lang := range languages {
		lang = strings.TrimSpace(lang)
		if idx := strings.Index(lang, ";"); idx != -1 {
			lang = lang[:idx]
		}

		if m.i18nService.IsLanguageSupported(lang) {
			return lang
		}

		// Verificar variação sem região (pt-BR -> pt)
		if idx := strings.Index(lang, "-"); idx != -1 {
			baseLang := lang[:idx]
			if m.i18nService.IsLanguageSupported(baseLang) {
				return baseLang
			}
		}
	}

	return ""
}
