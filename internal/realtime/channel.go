package realtime

// MessageHandler receives the raw payload of one message published on a
// subscribed topic.
type MessageHandler func(topic string, payload []byte)

// Unsubscribe releases one subscription. Calling it more than once, or after
// the channel has closed, is a safe no-op.
type Unsubscribe func()

// Channel is the realtime pub/sub transport the tracker consumes. The broker
// itself lives server-side; implementations here only speak its protocol.
type Channel interface {
	Subscribe(topic string, handler MessageHandler) (Unsubscribe, error)
}
