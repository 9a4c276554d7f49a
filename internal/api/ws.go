package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"crypto-radar/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub 向所有连接的看板推送新入库的快照
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeWS upgrades the connection and keeps it registered until the peer
// goes away. Clients are write-only from our side.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] 升级失败: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// 读循环只为感知断开
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends v to every connected client, dropping dead connections.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(v); err != nil {
			h.remove(conn)
		}
	}
}

// WatchLatest polls the store and broadcasts whenever a newer snapshot
// lands. Runs until the process exits.
func (h *Hub) WatchLatest(st *store.Store, interval time.Duration) {
	var lastSeen string
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		snap, assets, err := st.GetLatest()
		if err != nil {
			continue
		}
		if snap.SnapshotTime == lastSeen {
			continue
		}
		lastSeen = snap.SnapshotTime
		h.Broadcast(gin.H{"snapshot": snap, "coins": assets})
	}
}
