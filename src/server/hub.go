package server

import (
	"encoding/json"
	"net/http"
	"time"

	"plug-explorer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *FastAPIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				client.closeSend()
			}

		case reply := <-s.count:
			reply <- len(s.clients)

		case message := <-s.broadcast:
			for client := range s.clients {
				if !client.push(message) {
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					client.closeSend()
				}
			}

		case <-s.ctx.Done():
			for client := range s.clients {
				delete(s.clients, client)
				client.closeSend()
				client.conn.Close()
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------

// Broadcast queues message for every connected session.
func (s *FastAPIServer) Broadcast(message *models.MPageMessage) {
	select {
	case s.broadcast <- message:
	case <-s.ctx.Done():
	}
}

// -----------------------------------------------------------------------------

// Connections returns the number of live sessions.
func (s *FastAPIServer) Connections() int {
	reply := make(chan int, 1)
	select {
	case s.count <- reply:
		return <-reply
	case <-s.ctx.Done():
		return 0
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

// handleWebSocket mounts a page for the connection. The page lives exactly as long
// as the socket.
func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MPageMessage, 256),
	}
	client.page = s.newPage(client.pushAlert)

	s.sessions.Add(1)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		s.sessions.Done()
		conn.Close()
		return
	}

	client.dispose = client.page.Subscribe(func(snap models.MHomeSnapshot) {
		client.push(&models.MPageMessage{Type: "UPDATE", Snapshot: &snap, Timestamp: time.Now().Unix()})
	})

	initial := client.page.Snapshot()
	client.push(&models.MPageMessage{
		Type:      "INITIAL",
		Language:  s.Language(),
		Snapshot:  &initial,
		Timestamp: time.Now().Unix(),
	})

	if err := client.page.Mount(s.ctx); err != nil {
		s.Logger.Error("Failed to mount session page: %v", err)
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *FastAPIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	switch cmd.Command {
	case "search":
		// Blank input reaches the session through the page's alert sink
		if result, _ := client.page.Search(cmd.Query); result != nil {
			client.push(&models.MPageMessage{Type: "SEARCH", Search: result, Timestamp: time.Now().Unix()})
		}

	case "language":
		if err := s.SetLanguage(s.ctx, cmd.Language); err != nil {
			client.pushAlert(models.MAlert{Message: err.Error(), Time: 5000, Type: "error"})
		}
	}
}
