package services

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"doorpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// Hub keeps the live websocket connections of each user and pushes new notifications to them.
type Hub struct {
	clients    map[uuid.UUID]map[*websocket.Conn]bool
	register   chan subscription
	unregister chan subscription
	push       chan *models.Notification
	done       chan struct{}
	mu         sync.Mutex
}

type subscription struct {
	conn   *websocket.Conn
	userID uuid.UUID
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*websocket.Conn]bool),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		push:       make(chan *models.Notification, 64),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister/push until ctx is done. It is the only writer on the connections.
func (h *Hub) Run(ctx context.Context) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*websocket.Conn]bool)
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.userID] == nil {
				h.clients[sub.userID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.userID][sub.conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			h.drop(sub.userID, sub.conn)
			h.mu.Unlock()

		case n := <-h.push:
			h.mu.Lock()
			for conn := range h.clients[n.UserID] {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(n); err != nil {
					slog.Warn("ws write failed", slog.String("userId", n.UserID.String()), slog.String("error", err.Error()))
					h.drop(n.UserID, conn)
				}
			}
			h.mu.Unlock()

		case <-ping.C:
			h.mu.Lock()
			for userID, conns := range h.clients {
				for conn := range conns {
					if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
						h.drop(userID, conn)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(userID uuid.UUID, conn *websocket.Conn) {
	if _, ok := h.clients[userID][conn]; !ok {
		return
	}
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
	conn.Close()
}

// Connected returns how many connections the user has open.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Push queues n for delivery. A full queue drops the push; the row is already stored.
func (h *Hub) Push(n *models.Notification) {
	select {
	case h.push <- n:
	default:
		slog.Warn("notification push queue full", slog.String("userId", n.UserID.String()))
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve upgrades the request and subscribes the connection for userID.
func (h *Hub) Serve(c *gin.Context, userID uuid.UUID) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	sub := subscription{conn: conn, userID: userID}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}
	go h.readLoop(sub)
}

// readLoop only watches for close and pong frames; clients do not send data.
func (h *Hub) readLoop(sub subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NotificationService stores in-app notifications and pushes them to connected users.
type NotificationService struct {
	db  *gorm.DB
	hub *Hub
}

// NewNotificationService accepts a nil hub; notifications are then only stored.
func NewNotificationService(db *gorm.DB, hub *Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

func (s *NotificationService) Notify(userID uuid.UUID, title, message, link string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Push(n)
	}
	return n, nil
}

// NotifyAdmins sends the same notification to every active admin. Failures are logged.
func (s *NotificationService) NotifyAdmins(title, message, link string) int {
	var admins []models.User
	if err := s.db.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
		slog.Error("failed to load admins for notification", slog.String("error", err.Error()))
		return 0
	}

	sent := 0
	for _, a := range admins {
		if _, err := s.Notify(a.ID, title, message, link); err != nil {
			slog.Error("failed to store notification",
				slog.String("userId", a.ID.String()), slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	return sent
}
