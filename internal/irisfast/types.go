package irisfast

// Message is one inbound chat event from the Iris bridge.
type Message struct {
	Room   string       `json:"room"`
	Msg    string       `json:"msg"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

// MessageJSON carries the bridge's decoded metadata for the message.
type MessageJSON struct {
	UserID   string   `json:"user_id,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
	Members  []string `json:"members,omitempty"`
}

// ReplyRequest is the outbound frame for both HTTP and WS egress.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

// WebSocketState tracks the ingress connection lifecycle.
type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)

func (s WebSocketState) String() string { return string(s) }
