package irisfast

import "context"

type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

type WSClient interface {
	Connect(ctx context.Context) error
	OnMessage(cb MessageCallback)
	OnStateChange(cb StateCallback)
	Close(ctx context.Context) error
}
