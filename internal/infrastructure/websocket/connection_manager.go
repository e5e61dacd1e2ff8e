package websocket

import (
	"encoding/json"
	"sync"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

// ConnectionManager is the process-wide directory of live connections.
// A user may have several open tabs/devices, so each user id maps to a
// set of connections keyed by identity.
type ConnectionManager struct {
	connections map[string]map[domain.Connection]struct{} // userID -> set of connections
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[domain.Connection]struct{}),
		log:         log,
	}
}

// Register adds a connection to the user's set, creating the set on first
// connection. Registering the same connection twice is a no-op.
func (cm *ConnectionManager) Register(userID string, conn domain.Connection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	set := cm.connections[userID]
	if set == nil {
		set = make(map[domain.Connection]struct{})
		cm.connections[userID] = set
	}
	set[conn] = struct{}{}

	cm.log.Info("Connection registered", "user_id", userID, "connections", len(set))
}

// Unregister removes a connection from the user's set; the entry is
// deleted once the set is empty. Unregistering an unknown connection is a
// safe no-op.
func (cm *ConnectionManager) Unregister(userID string, conn domain.Connection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	set, exists := cm.connections[userID]
	if !exists {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(cm.connections, userID)
	}

	cm.log.Info("Connection unregistered", "user_id", userID, "connections", len(set))
}

// ConnectionsFor returns a snapshot of the user's open connections. The
// snapshot may go stale immediately; callers must tolerate sends failing.
func (cm *ConnectionManager) ConnectionsFor(userID string) []domain.Connection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	set := cm.connections[userID]
	if len(set) == 0 {
		return nil
	}

	connections := make([]domain.Connection, 0, len(set))
	for conn := range set {
		connections = append(connections, conn)
	}
	return connections
}

// NotifyUser delivers one payload to every connection the user has open
// at call time. Delivery is best-effort: a connection whose send fails is
// closed and unregistered, and delivery continues to its siblings. A user
// with no open connections is a silent no-op.
func (cm *ConnectionManager) NotifyUser(userID string, payload interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		cm.log.Error("Failed to marshal event", "user_id", userID, "error", err)
		return
	}
	cm.NotifyRaw(userID, message)
}

// NotifyRaw is NotifyUser for already-encoded payloads, fed by the
// cross-instance event relay.
func (cm *ConnectionManager) NotifyRaw(userID string, message []byte) {
	connections := cm.ConnectionsFor(userID)
	if len(connections) == 0 {
		return
	}

	for _, conn := range connections {
		if err := conn.Send(message); err != nil {
			cm.log.Warn("Dropping dead connection", "user_id", userID, "error", err)
			cm.Unregister(userID, conn)
			conn.Close()
		}
	}
}

// CloseAll tears down every open connection, used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mutex.Lock()
	all := cm.connections
	cm.connections = make(map[string]map[domain.Connection]struct{})
	cm.mutex.Unlock()

	for userID, set := range all {
		for conn := range set {
			if err := conn.Close(); err != nil {
				cm.log.Error("Failed to close connection", "user_id", userID, "error", err)
			}
		}
	}
}
