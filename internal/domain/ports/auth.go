package ports

import (
	"context"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// AuthEvent identifica o tipo de mudança de sessão emitida pelo provedor de auth
type AuthEvent string

const (
	AuthEventSignedIn       AuthEvent = "SIGNED_IN"
	AuthEventSignedOut      AuthEvent = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthChange é entregue aos assinantes a cada mudança de sessão.
// Session é nil quando não há sessão autenticada.
type AuthChange struct {
	Event   AuthEvent
	Session *entities.Session
}

// Subscription é o handle de uma assinatura. Unsubscribe pode ser chamado
// mais de uma vez; apenas a primeira chamada tem efeito.
type Subscription interface {
	Unsubscribe()
}

// AuthProvider é o provedor externo de sessões (Supabase Auth)
type AuthProvider interface {
	CurrentSession(ctx context.Context) (*entities.Session, error)
	// OnAuthStateChange entrega eventos na ordem em que ocorreram
	OnAuthStateChange(fn func(AuthChange)) Subscription
	SignOut(ctx context.Context) error
}

// MembershipReload é a operação que pede a todos os assinantes para recarregar
const MembershipReload = "RELOAD"

// MembershipChange notifica alteração em um vínculo usuário-loja
type MembershipChange struct {
	UsuarioID string `json:"usuario_id"`
	LojaID    string `json:"loja_id"`
	Operation string `json:"operation"`
}

// MembershipFeed publica alterações de vínculos em tempo real
type MembershipFeed interface {
	Subscribe(fn func(MembershipChange)) Subscription
}
