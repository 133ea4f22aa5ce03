package services

import (
	"sync"
	"time"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// Authorize compara o papel atual com o exigido (limite inclusivo).
// Rótulos desconhecidos valem visitante em ambos os lados.
func Authorize(current, required entities.Role) bool {
	return current.AtLeast(required)
}

// GuardState é o estado de um Guard montado
type GuardState string

const (
	GuardPending     GuardState = "PENDING"
	GuardAuthorized  GuardState = "AUTHORIZED"
	GuardDenied      GuardState = "DENIED"
	GuardRedirecting GuardState = "REDIRECTING"
)

// AfterFunc agenda f após d e retorna a função que cancela o agendamento
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// GuardOptions configura o redirecionamento do acesso negado
type GuardOptions struct {
	RedirectPath  string
	RedirectDelay time.Duration
	// OnRedirect é chamado quando a navegação (manual ou automática) acontece
	OnRedirect func(path string)
	// AfterFunc substitui time.AfterFunc (testes)
	AfterFunc AfterFunc
}

// Guard restringe a renderização de uma página a um papel mínimo.
//
// PENDING -> AUTHORIZED, ou PENDING -> DENIED -> REDIRECTING. Nenhum estado
// volta para PENDING; remontar significa criar outro Guard.
type Guard struct {
	required entities.Role
	opts     GuardOptions

	mu        sync.Mutex
	state     GuardState
	stopTimer func() bool
	closed    bool
}

// NewGuard monta um guard para o papel exigido
func NewGuard(required entities.Role, opts GuardOptions) *Guard {
	if opts.RedirectPath == "" {
		opts.RedirectPath = "/"
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		}
	}
	return &Guard{
		required: required,
		opts:     opts,
		state:    GuardPending,
	}
}

// Observe alimenta o guard com o perfil publicado e retorna o estado resultante
func (g *Guard) Observe(p ResolvedProfile) GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.state != GuardPending || p.Loading {
		return g.state
	}

	if Authorize(p.UserRole, g.required) {
		g.state = GuardAuthorized
		return g.state
	}

	g.state = GuardDenied
	g.stopTimer = g.opts.AfterFunc(g.opts.RedirectDelay, g.redirect)
	return g.state
}

// State retorna o estado atual
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CanRender indica se o conteúdo protegido pode ser exibido
func (g *Guard) CanRender() bool {
	return g.State() == GuardAuthorized
}

// Required retorna o papel exigido pelo guard
func (g *Guard) Required() entities.Role {
	return g.required
}

// RedirectPath retorna a rota segura usada pelo acesso negado
func (g *Guard) RedirectPath() string {
	return g.opts.RedirectPath
}

// RedirectDelay retorna o atraso do redirecionamento automático
func (g *Guard) RedirectDelay() time.Duration {
	return g.opts.RedirectDelay
}

// NavigateHome é a ação manual da tela de acesso negado
func (g *Guard) NavigateHome() bool {
	g.mu.Lock()
	if g.closed || g.state != GuardDenied {
		g.mu.Unlock()
		return false
	}
	if g.stopTimer != nil {
		g.stopTimer()
	}
	g.state = GuardRedirecting
	g.mu.Unlock()

	g.notify()
	return true
}

// Close desmonta o guard e cancela o redirecionamento pendente
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.closed = true
	if g.stopTimer != nil {
		g.stopTimer()
	}
}

func (g *Guard) redirect() {
	g.mu.Lock()
	if g.closed || g.state != GuardDenied {
		g.mu.Unlock()
		return
	}
	g.state = GuardRedirecting
	g.mu.Unlock()

	g.notify()
}

func (g *Guard) notify() {
	if g.opts.OnRedirect != nil {
		g.opts.OnRedirect(g.opts.RedirectPath)
	}
}
