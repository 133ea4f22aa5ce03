// Package testutil reúne implementações em memória das portas e repositórios
// usadas pelos testes de services e handlers.
package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// UserRepository guarda usuários em memória
type UserRepository struct {
	mu    sync.Mutex
	users map[string]*entities.User
	calls int

	// Err é devolvido por todas as operações quando definido
	Err error
	// BeforeFind roda antes de cada FindByID; um erro aborta a busca
	BeforeFind func(ctx context.Context, id string) error
}

// NewUserRepository cria o repositório com os usuários informados
func NewUserRepository(users ...*entities.User) *UserRepository {
	r := &UserRepository{users: make(map[string]*entities.User)}
	for _, u := range users {
		r.Put(u)
	}
	return r
}

// Put insere ou substitui um usuário
func (r *UserRepository) Put(u *entities.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
}

// Calls retorna quantas vezes FindByID foi chamado
func (r *UserRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	r.calls++
	hook := r.BeforeFind
	r.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, id); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.users[user.ID]; !ok {
		return errors.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) List(_ context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		if filters.Admin != nil && u.Admin != *filters.Admin {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

// LojaUsuarioRepository guarda vínculos em memória, na ordem de inserção
type LojaUsuarioRepository struct {
	mu    sync.Mutex
	lojas []*entities.LojaUsuario
	calls int

	Err        error
	BeforeList func(ctx context.Context, usuarioID string) error
}

// NewLojaUsuarioRepository cria o repositório com os vínculos informados
func NewLojaUsuarioRepository(lojas ...*entities.LojaUsuario) *LojaUsuarioRepository {
	r := &LojaUsuarioRepository{}
	r.Set(lojas...)
	return r
}

// Set substitui todos os vínculos
func (r *LojaUsuarioRepository) Set(lojas ...*entities.LojaUsuario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lojas = make([]*entities.LojaUsuario, len(lojas))
	for i, l := range lojas {
		cp := *l
		r.lojas[i] = &cp
	}
}

// Calls retorna quantas vezes ListByUsuario foi chamado
func (r *LojaUsuarioRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *LojaUsuarioRepository) ListByUsuario(ctx context.Context, usuarioID, status string) ([]*entities.LojaUsuario, error) {
	r.mu.Lock()
	r.calls++
	hook := r.BeforeList
	r.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, usuarioID); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []*entities.LojaUsuario{}
	for _, l := range r.lojas {
		if l.UsuarioID == usuarioID && l.Status == status {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// PedidoRepository devolve uma lista fixa de pedidos
type PedidoRepository struct {
	mu          sync.Mutex
	Pedidos     []*entities.Pedido
	Err         error
	LastFilters repositories.PedidoFilters
}

func (r *PedidoRepository) List(_ context.Context, filters repositories.PedidoFilters) ([]*entities.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastFilters = filters
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*entities.Pedido, 0, len(r.Pedidos))
	for _, p := range r.Pedidos {
		if filters.Status != nil && p.Status != *filters.Status {
			continue
		}
		if filters.LojaIDs != nil && !slices.Contains(filters.LojaIDs, p.LojaID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// UnitOfWork executa fn sem transação real e conta commits e rollbacks
type UnitOfWork struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }

func (u *UnitOfWork) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Commits++
	return nil
}

func (u *UnitOfWork) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Rollbacks++
	return nil
}

func (u *UnitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		_ = u.Rollback(ctx)
		return err
	}
	return u.Commit(ctx)
}

// AuthProvider é um provedor de sessão controlado pelo teste. Emit entrega os
// eventos de forma síncrona, na ordem das chamadas.
type AuthProvider struct {
	mu       sync.Mutex
	session  *entities.Session
	handlers map[int]func(ports.AuthChange)
	nextID   int

	// SessionErr é devolvido por CurrentSession quando definido
	SessionErr error
}

// NewAuthProvider cria o provedor com a sessão inicial (nil = sem sessão)
func NewAuthProvider(session *entities.Session) *AuthProvider {
	return &AuthProvider{
		session:  session,
		handlers: make(map[int]func(ports.AuthChange)),
	}
}

func (a *AuthProvider) CurrentSession(ctx context.Context) (*entities.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.SessionErr != nil {
		return nil, a.SessionErr
	}
	return a.session, nil
}

func (a *AuthProvider) OnAuthStateChange(fn func(ports.AuthChange)) ports.Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.handlers[id] = fn
	return &authSubscription{provider: a, id: id}
}

func (a *AuthProvider) SignOut(context.Context) error {
	a.Emit(ports.AuthEventSignedOut, nil)
	return nil
}

// Emit troca a sessão e notifica os assinantes
func (a *AuthProvider) Emit(event ports.AuthEvent, session *entities.Session) {
	a.mu.Lock()
	a.session = session
	handlers := make([]func(ports.AuthChange), 0, len(a.handlers))
	for i := 0; i < a.nextID; i++ {
		if fn, ok := a.handlers[i]; ok {
			handlers = append(handlers, fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range handlers {
		fn(ports.AuthChange{Event: event, Session: session})
	}
}

// Subscribers retorna quantos assinantes ainda estão registrados
func (a *AuthProvider) Subscribers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.handlers)
}

type authSubscription struct {
	provider *AuthProvider
	id       int
	once     sync.Once
}

func (s *authSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.provider.mu.Lock()
		defer s.provider.mu.Unlock()
		delete(s.provider.handlers, s.id)
	})
}

// MembershipFeed publica alterações de vínculo sob demanda do teste
type MembershipFeed struct {
	mu       sync.Mutex
	handlers map[int]func(ports.MembershipChange)
	nextID   int
}

// NewMembershipFeed cria um feed vazio
func NewMembershipFeed() *MembershipFeed {
	return &MembershipFeed{handlers: make(map[int]func(ports.MembershipChange))}
}

func (f *MembershipFeed) Subscribe(fn func(ports.MembershipChange)) ports.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = fn
	return &feedSubscription{feed: f, id: id}
}

// Publish entrega a alteração a todos os assinantes
func (f *MembershipFeed) Publish(change ports.MembershipChange) {
	f.mu.Lock()
	handlers := make([]func(ports.MembershipChange), 0, len(f.handlers))
	for _, fn := range f.handlers {
		handlers = append(handlers, fn)
	}
	f.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}

// Subscribers retorna quantos assinantes ainda estão registrados
func (f *MembershipFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

type feedSubscription struct {
	feed *MembershipFeed
	id   int
	once sync.Once
}

func (s *feedSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		defer s.feed.mu.Unlock()
		delete(s.feed.handlers, s.id)
	})
}
