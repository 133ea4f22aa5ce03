package supabase

import (
	"context"
	"sync"
	"time"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
)

// SessionHub é o provedor de auth de um único cliente: recebe os access tokens
// que o cliente obtém do Supabase, valida e emite os eventos de sessão em ordem.
// Implementa ports.AuthProvider.
type SessionHub struct {
	verifier *TokenVerifier
	logger   ports.Logger

	// deliverMu serializa troca de sessão + entrega, garantindo a ordem dos eventos
	deliverMu sync.Mutex

	mu          sync.Mutex
	session     *entities.Session
	handlers    map[uint64]func(ports.AuthChange)
	nextID      uint64
	stopExpiry  func() bool
	closed      bool
	now         func() time.Time
	afterExpiry func(d time.Duration, f func()) func() bool
}

// NewSessionHub cria um hub sem sessão
func NewSessionHub(verifier *TokenVerifier, logger ports.Logger) *SessionHub {
	return &SessionHub{
		verifier: verifier,
		logger:   logger.With("component", "session_hub"),
		handlers: make(map[uint64]func(ports.AuthChange)),
		now:      time.Now,
		afterExpiry: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
	}
}

// CurrentSession retorna a sessão atual (nil quando não autenticado)
func (h *SessionHub) CurrentSession(ctx context.Context) (*entities.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return nil, nil
	}
	s := *h.session
	return &s, nil
}

// OnAuthStateChange registra fn para receber os próximos eventos de sessão
func (h *SessionHub) OnAuthStateChange(fn func(ports.AuthChange)) ports.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.handlers[id] = fn

	return &hubSubscription{hub: h, id: id}
}

// SetAccessToken valida o token e troca a sessão. O primeiro token (ou um token
// de outro usuário) emite SIGNED_IN; um token novo do mesmo usuário emite
// TOKEN_REFRESHED.
func (h *SessionHub) SetAccessToken(token string) error {
	session, err := h.verifier.Verify(token)
	if err != nil {
		return err
	}

	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	h.mu.Lock()
	event := ports.AuthEventSignedIn
	if h.session != nil && h.session.Subject == session.Subject {
		event = ports.AuthEventTokenRefreshed
	}
	h.mu.Unlock()

	h.logger.Debug("session changed",
		"event", event,
		"subject", session.Subject,
		"token", Fingerprint(token),
	)
	h.switchLocked(session, event)
	return nil
}

// SignOut encerra a sessão local e emite SIGNED_OUT
func (h *SessionHub) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	h.switchLocked(nil, ports.AuthEventSignedOut)
	return nil
}

// Close cancela o timer de expiração e descarta os assinantes
func (h *SessionHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	if h.stopExpiry != nil {
		h.stopExpiry()
	}
	h.handlers = make(map[uint64]func(ports.AuthChange))
}

// switchLocked troca a sessão e entrega o evento; exige deliverMu
func (h *SessionHub) switchLocked(session *entities.Session, event ports.AuthEvent) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}

	h.session = session
	if h.stopExpiry != nil {
		h.stopExpiry()
		h.stopExpiry = nil
	}
	if session != nil && !session.ExpiresAt.IsZero() {
		h.stopExpiry = h.afterExpiry(session.ExpiresAt.Sub(h.now()), func() {
			h.expire(session)
		})
	}

	handlers := make([]func(ports.AuthChange), 0, len(h.handlers))
	for i := uint64(0); i < h.nextID; i++ {
		if fn, ok := h.handlers[i]; ok {
			handlers = append(handlers, fn)
		}
	}
	h.mu.Unlock()

	var payload *entities.Session
	if session != nil {
		s := *session
		payload = &s
	}

	for _, fn := range handlers {
		fn(ports.AuthChange{Event: event, Session: payload})
	}
}

// expire encerra a sessão se ela ainda for a mesma que agendou a expiração
func (h *SessionHub) expire(session *entities.Session) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	h.mu.Lock()
	current := h.session
	h.mu.Unlock()

	if current != session {
		return
	}

	h.logger.Info("session expired", "subject", session.Subject)
	h.switchLocked(nil, ports.AuthEventSignedOut)
}

func (h *SessionHub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, id)
}

type hubSubscription struct {
	hub  *SessionHub
	id   uint64
	once sync.Once
}

func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() { s.hub.unsubscribe(s.id) })
}
