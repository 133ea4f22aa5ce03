package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/rafabene/entregas-backend/internal/domain/ports"
)

// OperationReload é emitida após reconexão, quando notificações podem ter sido perdidas
const OperationReload = ports.MembershipReload

// MembershipListener escuta NOTIFY das alterações em loja_usuarios e repassa
// aos assinantes. Implementa ports.MembershipFeed.
type MembershipListener struct {
	connStr string
	channel string
	logger  ports.Logger

	listener *pq.Listener
	done     chan struct{}
	wg       sync.WaitGroup

	mu       sync.RWMutex
	handlers map[uint64]func(ports.MembershipChange)
	nextID   uint64
}

// NewMembershipListener cria o listener; nada é aberto até Start
func NewMembershipListener(connStr, channel string, logger ports.Logger) *MembershipListener {
	return &MembershipListener{
		connStr:  connStr,
		channel:  channel,
		logger:   logger.With("component", "membership_listener", "channel", channel),
		done:     make(chan struct{}),
		handlers: make(map[uint64]func(ports.MembershipChange)),
	}
}

// Subscribe registra fn para receber as alterações de vínculos
func (l *MembershipListener) Subscribe(fn func(ports.MembershipChange)) ports.Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.handlers[id] = fn

	return &listenerSubscription{listener: l, id: id}
}

// Start abre a conexão de LISTEN e inicia o processamento das notificações
func (l *MembershipListener) Start() error {
	l.listener = pq.NewListener(l.connStr, 10*time.Second, time.Minute, l.reportProblem)

	if err := l.listener.Listen(l.channel); err != nil {
		return fmt.Errorf("failed to listen on %s channel: %w", l.channel, err)
	}

	l.logger.Info("listening for membership changes")

	l.wg.Add(1)
	go l.process()

	return nil
}

// Stop fecha o listener e espera o processamento terminar
func (l *MembershipListener) Stop() {
	select {
	case <-l.done:
		return
	default:
		close(l.done)
	}
	if l.listener != nil {
		if err := l.listener.Close(); err != nil {
			l.logger.Warn("failed to close listener", "error", err)
		}
	}
	l.wg.Wait()
}

func (l *MembershipListener) reportProblem(ev pq.ListenerEventType, err error) {
	if err != nil {
		l.logger.Error("listener error", "error", err)
	}
	switch ev {
	case pq.ListenerEventConnectionAttemptFailed:
		l.logger.Warn("connection attempt failed, will retry")
	case pq.ListenerEventDisconnected:
		l.logger.Warn("disconnected, will attempt reconnect")
	case pq.ListenerEventReconnected:
		// notificações podem ter sido perdidas durante a queda
		l.logger.Info("reconnected, requesting full reload")
		l.dispatch(ports.MembershipChange{Operation: OperationReload})
	}
}

func (l *MembershipListener) process() {
	defer l.wg.Done()

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-l.done:
			return
		case n, ok := <-l.listener.Notify:
			if !ok {
				return
			}
			// nil indica reconexão, já tratada em reportProblem
			if n == nil {
				continue
			}
			change, err := ParseMembershipChange(n.Extra)
			if err != nil {
				l.logger.Warn("ignoring malformed notification", "payload", n.Extra, "error", err)
				continue
			}
			l.dispatch(change)
		case <-ping.C:
			go func() {
				if err := l.listener.Ping(); err != nil {
					l.logger.Warn("listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *MembershipListener) dispatch(change ports.MembershipChange) {
	l.mu.RLock()
	handlers := make([]func(ports.MembershipChange), 0, len(l.handlers))
	for _, fn := range l.handlers {
		handlers = append(handlers, fn)
	}
	l.mu.RUnlock()

	for _, fn := range handlers {
		fn(change)
	}
}

func (l *MembershipListener) unsubscribe(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, id)
}

// ParseMembershipChange decodifica o payload JSON enviado pelo trigger
func ParseMembershipChange(payload string) (ports.MembershipChange, error) {
	var change ports.MembershipChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return ports.MembershipChange{}, fmt.Errorf("invalid membership payload: %w", err)
	}
	if change.UsuarioID == "" {
		return ports.MembershipChange{}, fmt.Errorf("invalid membership payload: missing usuario_id")
	}
	return change, nil
}

type listenerSubscription struct {
	listener *MembershipListener
	id       uint64
	once     sync.Once
}

func (s *listenerSubscription) Unsubscribe() {
	s.once.Do(func() { s.listener.unsubscribe(s.id) })
}
