package preview

import (
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-mdcommand/internal/pipeline"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	maxMessageBytes = 1 << 20
)

// Message types exchanged over the websocket.
const (
	msgTransform = "transform" // client: convert Text in Mode
	msgSync      = "sync"      // client: send the watched file, if any
	msgResult    = "result"    // server: conversion outcome
	msgError     = "error"     // server: request failed
)

// request is a message sent by the browser.
type request struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// reply is a message sent to the browser. Source and Text are set only for
// watched file updates.
type reply struct {
	Type     string              `json:"type"`
	Markdown string              `json:"markdown"`
	HTML     string              `json:"html"`
	Log      []pipeline.LogEntry `json:"log"`
	Source   string              `json:"source,omitempty"`
	Text     string              `json:"text,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func resultReply(res Result) reply {
	return reply{Type: msgResult, Markdown: res.Markdown, HTML: res.HTML, Log: res.Log}
}

func errorReply(err error) reply {
	return reply{Type: msgError, Error: err.Error()}
}

// client wraps a connection. gorilla/websocket allows one concurrent
// writer, and both the read loop and broadcasts write.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// hub tracks connected clients for broadcasts.
type hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *slog.Logger
}

func newHub(log *slog.Logger) *hub {
	return &hub{clients: make(map[*client]struct{}), log: log}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("client connected", "clients", n)
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
		h.log.Debug("client disconnected", "clients", n)
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends v to every client, dropping clients that fail.
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(v); err != nil {
			h.log.Warn("dropping client", "error", err)
			h.remove(c)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		_ = c.conn.Close()
	}
}
