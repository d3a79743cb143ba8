package electrum

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/gorilla/websocket"
)

// Client is an Electrum protocol client over a websocket.
//
// The connection is established by the first call and shared by every following call;
// responses are matched to requests by id, so calls can be made concurrently.
// If the connection drops, in-flight calls fail and the next call reconnects.
type Client struct {
	config Config
	dialer *websocket.Dialer

	mu      sync.Mutex // guards session and closed, held while connecting
	session *session
	closed  bool

	nextID atomic.Uint64
	wg     sync.WaitGroup
}

// session is a single websocket connection and the requests in flight on it.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]chan result
	err     error // set once the session is broken
	done    chan struct{}
}

type result struct {
	raw json.RawMessage
	err error
}

// NewClient returns a client for the server at config.URL. It doesn't connect until the first call.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "electrum url is required")
	}
	return &Client{
		config: config.withDefaults(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			Proxy:            websocket.DefaultDialer.Proxy,
		},
	}, nil
}

// Call sends method with params and decodes the result into out (if not nil).
func (c *Client) Call(ctx context.Context, out any, method string, params ...any) error {
	s, err := c.acquire(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	raw, err := c.roundTrip(ctx, s, method, params)
	if err != nil {
		return errors.WithStack(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return collaboratorFailure(err, "can't decode %s result", method)
	}
	return nil
}

// Close closes the connection and fails in-flight calls with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil {
		s.writeMu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		s.fail(ErrClientClosed)
	}
	c.wg.Wait()
	return nil
}

// Shutdown is Close, for containers that release services on shutdown.
func (c *Client) Shutdown() error {
	return c.Close()
}

// acquire returns the live session, connecting and negotiating the protocol version if there is none.
// Concurrent callers wait for the same connection attempt.
func (c *Client) acquire(ctx context.Context) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.WithStack(ErrClientClosed)
	}
	if c.session != nil && !c.session.broken() {
		return c.session, nil
	}
	c.session = nil

	conn, _, err := c.dialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WithStack(ctx.Err())
		}
		return nil, collaboratorFailure(err, "can't connect to electrum server %s", c.config.URL)
	}

	s := &session{
		conn:    conn,
		pending: make(map[uint64]chan result),
		done:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.readLoop(s)
	if c.config.PingInterval > 0 {
		c.wg.Add(1)
		go c.pingLoop(s)
	}

	var version []string
	raw, err := c.roundTrip(ctx, s, "server.version", []any{c.config.ClientName, c.config.ProtocolVersion})
	if err == nil {
		err = json.Unmarshal(raw, &version)
	}
	if err != nil {
		s.fail(errors.Wrap(err, "handshake failed"))
		if ctx.Err() != nil {
			return nil, errors.WithStack(ctx.Err())
		}
		return nil, collaboratorFailure(err, "electrum handshake with %s failed", c.config.URL)
	}

	logger.DebugContext(ctx, "connected to electrum server",
		slogx.String("url", c.config.URL),
		slogx.Any("version", version),
	)
	c.session = s
	return s, nil
}

func (c *Client) roundTrip(ctx context.Context, s *session, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	id := c.nextID.Add(1)
	ch := make(chan result, 1)

	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return nil, errors.WithStack(s.err)
	}
	s.pending[id] = ch
	s.mu.Unlock()

	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	s.writeMu.Lock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := s.conn.WriteJSON(request{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	s.writeMu.Unlock()
	if err != nil {
		s.forget(id)
		return nil, collaboratorFailure(err, "can't send %s", method)
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, errors.WithStack(r.err)
		}
		return r.raw, nil
	case <-ctx.Done():
		s.forget(id)
		return nil, errors.Wrapf(ctx.Err(), "%s cancelled", method)
	}
}

func (c *Client) readLoop(s *session) {
	defer c.wg.Done()
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			s.fail(collaboratorFailure(err, "electrum connection lost"))
			c.detach(s)
			return
		}

		var resp response
		if err := json.Unmarshal(message, &resp); err != nil {
			logger.Warn("electrum: dropping undecodable message", slogx.Error(err))
			continue
		}
		if resp.ID == nil {
			// subscription notification, not requested by this client
			continue
		}
		r := result{raw: resp.Result}
		if resp.Error != nil {
			r = result{err: errors.Mark(resp.Error, errs.CollaboratorFailure)}
		}
		s.resolve(*resp.ID, r)
	}
}

func (c *Client) pingLoop(s *session) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			// WriteControl is safe to call concurrently with WriteJSON
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				logger.Debug("electrum: ping failed", slogx.Error(err))
			}
		}
	}
}

// detach drops s if it is still the current session, so the next call reconnects.
func (c *Client) detach(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == s {
		c.session = nil
	}
}

func (s *session) broken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err != nil
}

func (s *session) resolve(id uint64, r result) {
	s.mu.Lock()
	ch, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if ok {
		ch <- r
	}
}

func (s *session) forget(id uint64) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// fail breaks the session: pending calls get err and the connection is closed. Only the first call has effect.
func (s *session) fail(err error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return
	}
	s.err = err
	for id, ch := range s.pending {
		ch <- result{err: err}
		delete(s.pending, id)
	}
	close(s.done)
	s.mu.Unlock()
	_ = s.conn.Close()
}
