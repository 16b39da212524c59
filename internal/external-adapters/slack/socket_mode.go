package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
	"github.com/ochairo/casebot/internal/domain/interfaces"
)

// errReconnect asks Run to open a fresh connection
var errReconnect = errors.New("slack requested reconnect")

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

// envelope is a Socket Mode frame
type envelope struct {
	EnvelopeID string          `json:"envelope_id"`
	Type       string          `json:"type"`
	Reason     string          `json:"reason,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

type ackFrame struct {
	EnvelopeID string `json:"envelope_id"`
}

type eventsAPIPayload struct {
	Type           string       `json:"type"`
	Event          messageEvent `json:"event"`
	Authorizations []struct {
		UserID string `json:"user_id"`
		IsBot  bool   `json:"is_bot"`
	} `json:"authorizations"`
}

// mentionsBot reports whether text mentions the installed bot user.
// Without authorizations any mention counts.
func (p eventsAPIPayload) mentionsBot(text string) bool {
	found := false
	for _, a := range p.Authorizations {
		if !a.IsBot || a.UserID == "" {
			continue
		}
		found = true
		if strings.Contains(text, "<@"+a.UserID+">") {
			return true
		}
	}
	if found {
		return false
	}
	return mentionPattern.MatchString(text)
}

type messageEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`
	BotID   string `json:"bot_id,omitempty"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type interactivePayload struct {
	Type string `json:"type"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Actions []struct {
		ActionID string `json:"action_id"`
		Value    string `json:"value"`
	} `json:"actions"`
}

// SocketModeClient receives events over a Socket Mode WebSocket and routes them
type SocketModeClient struct {
	web            *WebClient
	router         *Router
	dialer         *websocket.Dialer
	logger         interfaces.Logger
	reconnectDelay time.Duration
}

// NewSocketModeClient creates a Socket Mode client
func NewSocketModeClient(web *WebClient, router *Router, logger interfaces.Logger) *SocketModeClient {
	return &SocketModeClient{
		web:    web,
		router: router,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		logger:         interfaces.OrNoOp(logger),
		reconnectDelay: 2 * time.Second,
	}
}

// Run connects and serves until ctx is cancelled, reconnecting when Slack asks to
func (c *SocketModeClient) Run(ctx context.Context) error {
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, errReconnect) {
			c.logger.Info("reconnecting to slack")
			continue
		}
		if err != nil {
			c.logger.Warn("slack connection lost", interfaces.F("error", err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *SocketModeClient) runOnce(ctx context.Context) error {
	wsURL, err := c.web.OpenConnection(ctx)
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			//nolint:errcheck // Best effort close to unblock the reader
			conn.Close()
		case <-done:
		}
	}()
	//nolint:errcheck // Close after serving
	defer conn.Close()

	return c.serve(ctx, &socketConn{conn: conn})
}

// socketConn serializes writes on a websocket connection
type socketConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *socketConn) ack(envelopeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(ackFrame{EnvelopeID: envelopeID})
}

func (c *SocketModeClient) serve(ctx context.Context, sc *socketConn) error {
	// Interactive handlers may wait on a dispatch; they run beside the read loop
	var handlers sync.WaitGroup
	defer handlers.Wait()

	for {
		var env envelope
		if err := sc.conn.ReadJSON(&env); err != nil {
			return fmt.Errorf("failed to read envelope: %w", err)
		}

		switch env.Type {
		case "hello":
			c.logger.Info("connected to slack")
		case "disconnect":
			c.logger.Info("slack sent disconnect", interfaces.F("reason", env.Reason))
			return errReconnect
		case "events_api":
			if err := sc.ack(env.EnvelopeID); err != nil {
				return fmt.Errorf("failed to acknowledge envelope: %w", err)
			}
			c.handleEvent(ctx, env.Payload)
		case "interactive":
			handlers.Add(1)
			go func(env envelope) {
				defer handlers.Done()
				c.handleInteractive(ctx, sc, env)
			}(env)
		default:
			if env.EnvelopeID != "" {
				if err := sc.ack(env.EnvelopeID); err != nil {
					return fmt.Errorf("failed to acknowledge envelope: %w", err)
				}
			}
			c.logger.Debug("ignoring envelope", interfaces.F("type", env.Type))
		}
	}
}

func (c *SocketModeClient) handleEvent(ctx context.Context, raw json.RawMessage) {
	var payload eventsAPIPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed events_api payload", interfaces.F("error", err))
		return
	}

	ev := payload.Event
	if ev.Type != "message" && ev.Type != "app_mention" {
		return
	}
	// Skip edits, joins and our own messages
	if ev.BotID != "" || ev.Subtype != "" {
		return
	}
	// A message that mentions the bot also arrives as app_mention; answer that one only
	if ev.Type == "message" && payload.mentionsBot(ev.Text) {
		return
	}

	handler, ok := c.router.messageHandler()
	if !ok {
		return
	}

	text := strings.TrimSpace(mentionPattern.ReplaceAllString(ev.Text, ""))
	msg := orchestrators.IncomingMessage{User: ev.User, Channel: ev.Channel, Text: text}
	if err := handler(ctx, msg, NewChannelReply(c.web, ev.Channel)); err != nil {
		c.logger.Error("message handler failed", interfaces.F("channel", ev.Channel), interfaces.F("error", err))
	}
}

func (c *SocketModeClient) handleInteractive(ctx context.Context, sc *socketConn, env envelope) {
	var once sync.Once
	var ackErr error
	ack := func() error {
		once.Do(func() { ackErr = sc.ack(env.EnvelopeID) })
		return ackErr
	}
	// Slack redelivers unacknowledged envelopes
	defer func() { _ = ack() }()

	var payload interactivePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		c.logger.Warn("malformed interactive payload", interfaces.F("error", err))
		return
	}
	if payload.Type != "block_actions" {
		return
	}

	reply := NewChannelReply(c.web, payload.Channel.ID)
	for _, a := range payload.Actions {
		handler, ok := c.router.actionHandler(a.ActionID)
		if !ok {
			c.logger.Debug("no handler for action", interfaces.F("action_id", a.ActionID))
			continue
		}
		action := orchestrators.ActionEvent{
			User:     payload.User.ID,
			Channel:  payload.Channel.ID,
			ActionID: a.ActionID,
			Value:    a.Value,
		}
		if err := handler(ctx, action, ack, reply); err != nil {
			c.logger.Error("action handler failed", interfaces.F("action_id", a.ActionID), interfaces.F("error", err))
		}
	}
}
