package service

// Broadcaster interface for WebSocket event delivery (avoids import cycle)
type Broadcaster interface {
	SendToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// NopBroadcaster discards every event. Used by offline tooling and tests.
type NopBroadcaster struct{}

func (NopBroadcaster) SendToSession(string, string, interface{}) {}
func (NopBroadcaster) DisconnectSession(string)                  {}
