// ABOUTME: Telemetry wire messages
// ABOUTME: JSON envelope and payloads exchanged over the telemetry websocket
package telemetry

const (
	TypeHello         = "server/hello"
	TypeStatus        = "status"
	TypeStatusRequest = "status/request"
)

// Message is the envelope for every telemetry message
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hello is sent once when a client connects
type Hello struct {
	Session    string `json:"session"`
	ClientID   string `json:"client_id"`
	Product    string `json:"product"`
	Version    string `json:"version"`
	IntervalMS int64  `json:"interval_ms"`
}
