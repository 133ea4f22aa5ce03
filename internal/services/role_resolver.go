package services

import (
	"context"
	errs "errors"
	"sync"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
)

var (
	ErrResolverStarted = errs.New("role resolver already started")
	ErrResolverClosed  = errs.New("role resolver closed")
)

// RoleResolver mantém o perfil resolvido de um cliente e o recalcula a cada
// mudança de sessão. É o único escritor do perfil; leitores recebem cópias.
//
// Cada gatilho (evento de sessão ou Reload) recebe uma geração nova no momento
// em que chega. Uma resolução só publica se sua geração ainda for a mais
// recente e o resolver não tiver sido fechado.
type RoleResolver struct {
	auth   ports.AuthProvider
	loader *ProfileLoader
	logger ports.Logger

	mu         sync.Mutex
	profile    ResolvedProfile
	session    *entities.Session
	generation uint64
	listeners  map[uint64]*profileListener
	nextID     uint64
	authSub    ports.Subscription
	baseCtx    context.Context
	started    bool
	closed     bool
}

// NewRoleResolver cria um resolver no estado INIT
func NewRoleResolver(auth ports.AuthProvider, loader *ProfileLoader, logger ports.Logger) *RoleResolver {
	return &RoleResolver{
		auth:      auth,
		loader:    loader,
		logger:    logger.With("component", "role_resolver"),
		profile:   initialProfile(),
		listeners: make(map[uint64]*profileListener),
		baseCtx:   context.Background(),
	}
}

// Start assina as mudanças de sessão e resolve a sessão atual uma vez.
// Retorna depois que a resolução inicial termina.
func (r *RoleResolver) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrResolverClosed
	}
	if r.started {
		r.mu.Unlock()
		return ErrResolverStarted
	}
	r.started = true
	r.baseCtx = ctx
	gen := r.beginLocked(nil)
	r.mu.Unlock()

	// assinar antes de consultar a sessão: eventos que chegarem durante a
	// consulta recebem geração maior e vencem a resolução inicial
	sub := r.auth.OnAuthStateChange(r.handleAuthChange)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		sub.Unsubscribe()
		return ErrResolverClosed
	}
	r.authSub = sub
	r.mu.Unlock()

	session, err := r.auth.CurrentSession(ctx)
	if err != nil {
		r.logger.Warn("failed to query current session", "error", err)
		r.commit(gen, nil, sessionLookupFailed{err: err})
		return nil
	}

	r.run(ctx, gen, session)
	return nil
}

// Profile retorna uma cópia do perfil atual
func (r *RoleResolver) Profile() ResolvedProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile.clone()
}

// Subscribe entrega o perfil atual e depois cada publicação, em ordem, numa
// goroutine própria do assinante
func (r *RoleResolver) Subscribe(fn func(ResolvedProfile)) ports.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := newProfileListener(fn)
	if r.closed {
		l.stop()
		return &resolverSubscription{}
	}

	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	l.push(r.profile.clone())
	go l.run()

	return &resolverSubscription{resolver: r, id: id}
}

// Reload refaz a resolução da sessão atual e retorna o perfil resultante
func (r *RoleResolver) Reload(ctx context.Context) ResolvedProfile {
	r.mu.Lock()
	if r.closed {
		defer r.mu.Unlock()
		return r.profile.clone()
	}
	gen := r.beginLocked(r.session)
	r.mu.Unlock()

	r.logger.Debug("manual reload", "generation", gen)

	session, err := r.auth.CurrentSession(ctx)
	if err != nil {
		r.logger.Warn("failed to query current session", "error", err)
		r.commit(gen, nil, sessionLookupFailed{err: err})
		return r.Profile()
	}

	r.run(ctx, gen, session)
	return r.Profile()
}

// SignOut encerra a sessão no provedor; o evento resultante leva a visitante
func (r *RoleResolver) SignOut(ctx context.Context) error {
	return r.auth.SignOut(ctx)
}

// Close libera a assinatura de sessão e todos os assinantes, uma única vez.
// Resoluções em andamento não publicam mais.
func (r *RoleResolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	sub := r.authSub
	listeners := r.listeners
	r.listeners = make(map[uint64]*profileListener)
	r.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	for _, l := range listeners {
		l.stop()
	}
}

func (r *RoleResolver) handleAuthChange(change ports.AuthChange) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.session = change.Session
	gen := r.beginLocked(change.Session)
	ctx := r.baseCtx
	r.mu.Unlock()

	r.logger.Debug("auth state changed", "event", change.Event, "generation", gen)
	go r.run(ctx, gen, change.Session)
}

func (r *RoleResolver) run(ctx context.Context, gen uint64, session *entities.Session) {
	r.commit(gen, session, r.loader.lookup(ctx, session))
}

// beginLocked abre uma nova geração e publica o estado RESOLVING
func (r *RoleResolver) beginLocked(session *entities.Session) uint64 {
	r.generation++
	r.publishLocked(transition(r.profile, resolutionStarted{session: session}))
	return r.generation
}

// commit publica o resultado se a geração ainda for a vigente
func (r *RoleResolver) commit(gen uint64, session *entities.Session, ev profileEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.generation {
		r.logger.Debug("discarding stale resolution", "generation", gen, "current", r.generation)
		return false
	}

	r.session = session
	r.publishLocked(transition(r.profile, ev))
	return true
}

func (r *RoleResolver) publishLocked(p ResolvedProfile) {
	r.profile = p
	for _, l := range r.listeners {
		l.push(p.clone())
	}
}

func (r *RoleResolver) removeListener(id uint64) {
	r.mu.Lock()
	l, ok := r.listeners[id]
	delete(r.listeners, id)
	r.mu.Unlock()

	if ok {
		l.stop()
	}
}

type resolverSubscription struct {
	resolver *RoleResolver
	id       uint64
	once     sync.Once
}

func (s *resolverSubscription) Unsubscribe() {
	s.once.Do(func() {
		if s.resolver != nil {
			s.resolver.removeListener(s.id)
		}
	})
}

// profileListener entrega publicações em ordem sem bloquear o resolver
type profileListener struct {
	fn       func(ResolvedProfile)
	mu       sync.Mutex
	queue    []ResolvedProfile
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newProfileListener(fn func(ResolvedProfile)) *profileListener {
	return &profileListener{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (l *profileListener) push(p ResolvedProfile) {
	l.mu.Lock()
	l.queue = append(l.queue, p)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *profileListener) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *profileListener) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			p := l.queue[0]
			l.queue[0] = ResolvedProfile{}
			l.queue = l.queue[1:]
			l.mu.Unlock()

			select {
			case <-l.done:
				return
			default:
			}
			l.fn(p)
		}
	}
}
