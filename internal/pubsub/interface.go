package pubsub

// PubSubClient publishes game lifecycle events for downstream automation.
type PubSubClient interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
