package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}

// Message types pushed to a session's live connections
const (
	EventStateChanged = "state_changed"
	EventSubmitted    = "submitted"
	EventSubmitFailed = "submit_failed"
)
