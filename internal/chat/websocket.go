package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"zomaksho/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
	sendBuffer = 16
)

type FrameType string

const (
	FrameHistory FrameType = "history"
	FrameMessage FrameType = "message"
	FrameTyping  FrameType = "typing"
	FrameError   FrameType = "error"
)

// Frame is what the server writes to the chat socket.
type Frame struct {
	Type     FrameType `json:"type"`
	Message  *Message  `json:"message,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type inbound struct {
	Text string `json:"text"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and runs the conversation over the socket.
// The history is sent first; each inbound {"text": ...} frame is answered
// with the user echo, a typing frame and the bot reply.
func (h *Handler) ServeWS(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	client := &wsClient{
		conn:      conn,
		service:   h.service,
		sessionID: sess.ID,
		send:      make(chan Frame, sendBuffer),
		incoming:  make(chan string, sendBuffer),
	}

	done := make(chan struct{})
	go func() {
		client.writePump()
		close(done)
	}()
	go client.process(ctx)

	client.readPump()
	cancel()
	<-done
}

type wsClient struct {
	conn      *websocket.Conn
	service   *Service
	sessionID string
	send      chan Frame
	incoming  chan string
}

// readPump owns reads. It returns when the peer goes away; closing incoming
// lets process drain and then close send.
func (w *wsClient) readPump() {
	defer close(w.incoming)

	w.conn.SetReadLimit(readLimit)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).WithField("session", w.sessionID).Warn("websocket read error")
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			w.send <- Frame{Type: FrameError, Error: "invalid frame"}
			continue
		}
		w.incoming <- in.Text
	}
}

// process answers inbound texts one at a time so replies keep their order.
func (w *wsClient) process(ctx context.Context) {
	defer close(w.send)

	history, err := w.service.History(ctx, w.sessionID)
	if err != nil {
		w.send <- Frame{Type: FrameError, Error: "could not load conversation"}
	} else {
		w.send <- Frame{Type: FrameHistory, Messages: history}
	}

	for text := range w.incoming {
		w.send <- Frame{Type: FrameTyping}

		msgs, err := w.service.SendMessage(ctx, w.sessionID, text)
		if err != nil {
			msg := "could not send message"
			if errors.Is(err, ErrEmptyMessage) {
				msg = err.Error()
			}
			w.send <- Frame{Type: FrameError, Error: msg}
			continue
		}
		for i := range msgs {
			w.send <- Frame{Type: FrameMessage, Message: &msgs[i]}
		}
	}
}

func (w *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = w.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteJSON(frame); err != nil {
				log.WithError(err).WithField("session", w.sessionID).Warn("websocket write error")
				w.drain()
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				w.drain()
				return
			}
		}
	}
}

// drain keeps consuming after a write failure so process never blocks.
func (w *wsClient) drain() {
	_ = w.conn.Close()
	for range w.send {
	}
}
