package servermanage

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Pjt727/bookcs/server/components"
	"github.com/gorilla/websocket"
	"github.com/robert-nix/ansihtml"
)

// every log line the server writes is pushed to every open websocket. Lines
// are not kept, a socket only sees what was logged while it was open.

const sendBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// LogBroadcaster is the writer behind the websocket log handler
type LogBroadcaster struct {
	mu          sync.Mutex
	connections map[*webSocketConnection]struct{}
}

func NewLogBroadcaster() *LogBroadcaster {
	return &LogBroadcaster{connections: map[*webSocketConnection]struct{}{}}
}

// Write never blocks, a socket that is behind misses the line. It must not
// log itself since it is the end of a logger.
func (b *LogBroadcaster) Write(p []byte) (int, error) {
	bytesLen := len(p)
	formattedLog := ansihtml.ConvertToHTML(bytes.TrimRight(p, "\n"))

	var logLine bytes.Buffer
	err := components.LogLine(string(formattedLog)).Render(context.Background(), &logLine)
	if err != nil {
		return bytesLen, err
	}
	message := logLine.Bytes()

	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.connections {
		select {
		case c.send <- message:
		default:
		}
	}
	return bytesLen, nil
}

func (b *LogBroadcaster) add(c *webSocketConnection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connections[c] = struct{}{}
}

// remove closes the connection's send channel under the lock so Write never
// sends on a closed channel
func (b *LogBroadcaster) remove(c *webSocketConnection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.connections[c]; !ok {
		return
	}
	delete(b.connections, c)
	close(c.send)
}

func (b *LogBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.connections)
}

type webSocketConnection struct {
	conn      *websocket.Conn
	send      chan []byte
	logs      *LogBroadcaster
	closeOnce sync.Once
	logger    *slog.Logger
}

func (h *manageHandler) loggingWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Info("Could not upgrade", "err", err)
		return
	}

	wsConn := &webSocketConnection{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logs:   h.logs,
		logger: h.logger,
	}
	h.logs.add(wsConn)

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump only watches for the browser going away
func (wsConn *webSocketConnection) readPump() {
	defer wsConn.disconnect()
	for {
		if _, _, err := wsConn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				wsConn.logger.Info("Log socket closed", "err", err)
			}
			return
		}
	}
}

func (wsConn *webSocketConnection) writePump() {
	defer wsConn.disconnect()
	for message := range wsConn.send {
		if err := wsConn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	wsConn.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (wsConn *webSocketConnection) disconnect() {
	wsConn.closeOnce.Do(func() {
		wsConn.logs.remove(wsConn)
		wsConn.conn.Close()
	})
}
