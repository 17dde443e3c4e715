package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeu5/marl-env/multiagent"
)

const writeWait = 2 * time.Second

// Viewer keeps the websocket connections of the viewers and broadcasts snapshots to them
type Viewer struct {
	upgrader    websocket.Upgrader
	mu          sync.Mutex
	connections map[*websocket.Conn]struct{}
}

func NewViewer() *Viewer {
	return &Viewer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		connections: make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the connection, sends the current snapshot and keeps the viewer
// registered until it disconnects
func (v *Viewer) Serve(w http.ResponseWriter, r *http.Request, current *multiagent.Snapshot) {
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	v.mu.Lock()
	v.connections[conn] = struct{}{}
	v.mu.Unlock()

	if current != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(current); err != nil {
			v.remove(conn)
			return
		}
	}
	go v.read(conn)
}

// read discards incoming messages and drops the viewer on error
func (v *Viewer) read(conn *websocket.Conn) {
	defer v.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (v *Viewer) remove(conn *websocket.Conn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.connections[conn]; ok {
		delete(v.connections, conn)
		conn.Close()
	}
}

// Len is the number of connected viewers
func (v *Viewer) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.connections)
}

// Broadcast sends the snapshot to every viewer, failing viewers are dropped
func (v *Viewer) Broadcast(snapshot *multiagent.Snapshot) {
	v.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(v.connections))
	for conn := range v.connections {
		conns = append(conns, conn)
	}
	v.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snapshot); err != nil {
			log.Printf("dropping viewer: %v", err)
			v.remove(conn)
		}
	}
}

// Close disconnects all viewers
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for conn := range v.connections {
		conn.Close()
		delete(v.connections, conn)
	}
}
