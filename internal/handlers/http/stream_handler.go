package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	"github.com/rafabene/entregas-backend/internal/handlers/middleware"
	"github.com/rafabene/entregas-backend/internal/infrastructure/auth/supabase"
	"github.com/rafabene/entregas-backend/internal/services"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamReadLimit  = 8 << 10
	streamSendBuffer = 32
)

// StreamOptions configura o stream de perfil
type StreamOptions struct {
	RedirectPath  string
	RedirectDelay time.Duration
	// AllowedOrigins vazio ou com "*" aceita qualquer origem
	AllowedOrigins []string
}

// StreamHandler mantém, por conexão, um resolver de papel reativo e os guards
// montados pelo cliente
type StreamHandler struct {
	verifier *supabase.TokenVerifier
	loader   *services.ProfileLoader
	feed     ports.MembershipFeed
	opts     StreamOptions
	upgrader websocket.Upgrader
	logger   ports.Logger
}

// NewStreamHandler cria o handler; feed pode ser nil quando o realtime está desligado
func NewStreamHandler(
	verifier *supabase.TokenVerifier,
	loader *services.ProfileLoader,
	feed ports.MembershipFeed,
	opts StreamOptions,
	logger ports.Logger,
) *StreamHandler {
	h := &StreamHandler{
		verifier: verifier,
		loader:   loader,
		feed:     feed,
		opts:     opts,
		logger:   logger.With("component", "profile_stream"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Stream abre o stream de perfil
//
//	@Summary		Stream do perfil resolvido
//	@Description	WebSocket. Frames do cliente: session, sign_out, reload, guard, navigate_home.
//	@Description	Frames do servidor: profile, guard, redirect, error.
//	@Tags			perfil
//	@Param			access_token	query	string	false	"Access token inicial"
//	@Success		101
//	@Router			/profile/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// o upgrader já respondeu com o erro HTTP
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	token := c.Query("access_token")
	if token == "" {
		token = middleware.BearerToken(c)
	}

	s := &streamSession{
		id:      uuid.NewString(),
		handler: h,
		conn:    conn,
		translate: func(key string) string {
			return dto.T(c, key)
		},
		out:  make(chan dto.ServerFrame, streamSendBuffer),
		done: make(chan struct{}),
	}
	s.logger = h.logger.With("connection", s.id)

	s.serve(c.Request.Context(), token)
}

func (h *StreamHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	return false
}

// streamSession é o estado de uma conexão. Só writeLoop escreve no socket.
type streamSession struct {
	id        string
	handler   *StreamHandler
	conn      *websocket.Conn
	translate func(key string) string
	logger    ports.Logger

	hub      *supabase.SessionHub
	resolver *services.RoleResolver

	out      chan dto.ServerFrame
	done     chan struct{}
	stopOnce sync.Once

	guardMu sync.Mutex
	guard   *services.Guard
}

func (s *streamSession) serve(parent context.Context, token string) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	s.logger.Info("profile stream opened")

	s.hub = supabase.NewSessionHub(s.handler.verifier, s.logger)
	if token != "" {
		if err := s.hub.SetAccessToken(token); err != nil {
			s.sendError(err)
		}
	}

	s.resolver = services.NewRoleResolver(s.hub, s.handler.loader, s.logger)
	profileSub := s.resolver.Subscribe(s.onProfile)

	var feedSub ports.Subscription
	if s.handler.feed != nil {
		feedSub = s.handler.feed.Subscribe(func(change ports.MembershipChange) {
			s.onMembershipChange(ctx, change)
		})
	}

	if err := s.resolver.Start(ctx); err != nil {
		s.logger.Error("failed to start role resolver", "error", err)
	} else {
		s.readLoop(ctx)
	}

	if feedSub != nil {
		feedSub.Unsubscribe()
	}
	s.guardMu.Lock()
	if s.guard != nil {
		s.guard.Close()
	}
	s.guardMu.Unlock()
	profileSub.Unsubscribe()
	s.resolver.Close()
	s.hub.Close()

	s.stop()
	<-writerDone
	_ = s.conn.Close()

	s.logger.Info("profile stream closed")
}

func (s *streamSession) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(streamReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("profile stream read failed", "error", err)
			}
			return
		}

		var frame dto.ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.sendCode("error.invalid_frame")
			continue
		}

		s.handleFrame(ctx, frame)
	}
}

func (s *streamSession) handleFrame(ctx context.Context, frame dto.ClientFrame) {
	switch frame.Type {
	case dto.FrameSession:
		if err := s.hub.SetAccessToken(frame.AccessToken); err != nil {
			s.sendError(err)
		}

	case dto.FrameSignOut:
		if err := s.resolver.SignOut(ctx); err != nil {
			s.sendError(err)
		}

	case dto.FrameReload:
		go s.resolver.Reload(ctx)

	case dto.FrameGuard:
		s.mountGuard(entities.ParseRole(frame.RequiredRole))

	case dto.FrameNavigateHome:
		s.guardMu.Lock()
		g := s.guard
		s.guardMu.Unlock()
		if g == nil || !g.NavigateHome() {
			s.sendCode("error.invalid_frame")
		}

	default:
		s.sendCode("error.unknown_frame")
	}
}

// mountGuard substitui o guard atual; o anterior é desmontado e seu timer cancelado
func (s *streamSession) mountGuard(required entities.Role) {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()

	if s.guard != nil {
		s.guard.Close()
	}

	var g *services.Guard
	g = services.NewGuard(required, services.GuardOptions{
		RedirectPath:  s.handler.opts.RedirectPath,
		RedirectDelay: s.handler.opts.RedirectDelay,
		OnRedirect: func(path string) {
			s.send(guardFrame(g))
			s.send(dto.ServerFrame{Type: dto.FrameRedirect, To: path})
		},
	})
	s.guard = g

	g.Observe(s.resolver.Profile())
	s.send(guardFrame(g))
}

func (s *streamSession) onProfile(p services.ResolvedProfile) {
	resp := dto.ToProfileResponse(p, s.translate)
	s.send(dto.ServerFrame{Type: dto.FrameProfile, Profile: &resp})

	s.guardMu.Lock()
	defer s.guardMu.Unlock()

	if s.guard == nil {
		return
	}
	// a fila pode entregar um perfil anterior ao que o guard já viu na montagem;
	// o guard só observa o perfil vigente
	prev := s.guard.State()
	if next := s.guard.Observe(s.resolver.Profile()); next != prev {
		s.send(guardFrame(s.guard))
	}
}

func (s *streamSession) onMembershipChange(ctx context.Context, change ports.MembershipChange) {
	if change.Operation != ports.MembershipReload {
		p := s.resolver.Profile()
		if p.User == nil || p.User.Subject != change.UsuarioID {
			return
		}
	}

	s.logger.Debug("membership changed, reloading profile",
		"operation", change.Operation,
		"loja_id", change.LojaID,
	)
	go s.resolver.Reload(ctx)
}

func guardFrame(g *services.Guard) dto.ServerFrame {
	frame := dto.ServerFrame{
		Type:         dto.FrameGuard,
		State:        string(g.State()),
		RequiredRole: g.Required().String(),
	}
	if frame.State != string(services.GuardPending) && frame.State != string(services.GuardAuthorized) {
		frame.RedirectTo = g.RedirectPath()
		frame.RedirectAfterMs = g.RedirectDelay().Milliseconds()
	}
	return frame
}

func (s *streamSession) sendError(err error) {
	code := errors.Code(err)
	if code == "" {
		s.logger.Error("unexpected stream error", "error", err)
		code = "error.internal.detail"
	}
	s.sendCode(code)
}

func (s *streamSession) sendCode(code string) {
	s.send(dto.ServerFrame{Type: dto.FrameError, Code: code, Detail: s.translate(code)})
}

func (s *streamSession) send(frame dto.ServerFrame) {
	select {
	case s.out <- frame:
	case <-s.done:
	}
}

func (s *streamSession) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *streamSession) writeLoop() {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				s.logger.Warn("profile stream write failed", "error", err)
				s.stop()
				_ = s.conn.Close()
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.stop()
				_ = s.conn.Close()
				return
			}

		case <-s.done:
			_ = s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteWait),
			)
			return
		}
	}
}
