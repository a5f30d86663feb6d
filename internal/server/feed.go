package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/toyfacade/internal/core/events/bus"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
)

const (
	EnvelopeSnapshot = "snapshot"
	EnvelopeReply    = "reply"
)

// Envelope is the JSON frame written to observers.
type Envelope struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
	Data any       `json:"data,omitempty"`
}

// Reply answers a ControlMessage.
type Reply struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Config holds feed settings.
type Config struct {
	ListenAddr      string
	SendBuffer      int
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		SendBuffer:      256,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func (c Config) validate() error {
	if c.ListenAddr == "" || c.SendBuffer <= 0 || c.WriteTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

type client struct {
	conn *websocket.Conn
	send chan Envelope
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Feed streams scene replication events to websocket observers and accepts
// control messages from them.
type Feed struct {
	config   Config
	bus      bus.EventBus
	service  Service
	logger   log.Log
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	sub     bus.Subscription
	closed  atomic.Bool
}

func NewFeed(config Config, b bus.EventBus, service Service, logger log.Log) *Feed {
	return &Feed{
		config:  config,
		bus:     b,
		service: service,
		logger:  logger.With(log.String("component", "feed")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// Open starts forwarding bus events. It is idempotent.
func (f *Feed) Open() error {
	if f.closed.Load() {
		return ErrServerClosed
	}
	if err := f.config.validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sub != nil {
		return nil
	}
	sub, err := f.bus.Subscribe(bus.Wildcard, f.broadcast)
	if err != nil {
		return err
	}
	f.sub = sub
	return nil
}

// Run serves the feed on config.ListenAddr until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.Open(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", f)
	srv := &http.Server{
		Addr:              f.config.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		f.logger.Info("Feed listening", log.String("addr", f.config.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = f.Close()
		return fmt.Errorf("feed: listen %s: %w", f.config.ListenAddr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), f.config.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	return errors.Join(err, f.Close())
}

// Close drops every observer and stops forwarding events.
func (f *Feed) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	f.mu.Lock()
	sub := f.sub
	f.sub = nil
	clients := f.clients
	f.clients = make(map[*client]struct{})
	f.mu.Unlock()

	for c := range clients {
		c.close()
	}
	if sub != nil {
		return sub.Cancel()
	}
	return nil
}

// Clients is the number of connected observers.
func (f *Feed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.closed.Load() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Envelope, f.config.SendBuffer),
		done: make(chan struct{}),
	}

	states, err := f.service.Snapshot(r.Context())
	if err != nil {
		f.logger.Warn("Snapshot failed", log.Error(err))
		c.close()
		return
	}

	f.mu.Lock()
	if f.closed.Load() {
		f.mu.Unlock()
		c.close()
		return
	}
	c.send <- Envelope{Type: EnvelopeSnapshot, Time: time.Now(), Data: states}
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	f.logger.Debug("Observer connected", log.String("remote", conn.RemoteAddr().String()))

	go f.writeLoop(c)
	f.readLoop(r.Context(), c)
}

func (f *Feed) readLoop(ctx context.Context, c *client) {
	defer f.drop(c)
	for {
		var msg ControlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				f.logger.Debug("Observer read failed", log.Error(err))
			}
			return
		}

		reply := Reply{Action: msg.Action, OK: true}
		result, err := f.service.Handle(ctx, msg)
		if err != nil {
			reply.OK = false
			reply.Error = err.Error()
		} else {
			reply.Result = result
		}

		select {
		case c.send <- Envelope{Type: EnvelopeReply, Time: time.Now(), Data: reply}:
		case <-c.done:
			return
		}
	}
}

func (f *Feed) writeLoop(c *client) {
	defer f.drop(c)
	for {
		select {
		case <-c.done:
			return
		case env := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
			if err := c.conn.WriteJSON(env); err != nil {
				f.logger.Debug("Observer write failed", log.Error(err))
				return
			}
		}
	}
}

// broadcast runs on the publishing goroutine and never blocks; observers
// that cannot keep up are dropped.
func (f *Feed) broadcast(event bus.Event) error {
	env := Envelope{Type: event.Type(), Time: event.Timestamp(), Data: event.Data()}

	var slow []*client
	f.mu.RLock()
	for c := range f.clients {
		select {
		case c.send <- env:
		default:
			slow = append(slow, c)
		}
	}
	f.mu.RUnlock()

	for _, c := range slow {
		f.logger.Warn("Dropping slow observer", log.String("remote", c.conn.RemoteAddr().String()))
		f.drop(c)
	}
	return nil
}

func (f *Feed) drop(c *client) {
	f.mu.Lock()
	delete(f.clients, c)
	f.mu.Unlock()
	c.close()
}
