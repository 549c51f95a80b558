package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventGameCreated     EventType = "game.created"
	EventGameSettled     EventType = "game.settled"
	EventStatsRecomputed EventType = "stats.recomputed"
)

// GameEvent is the payload published on game lifecycle transitions.
type GameEvent struct {
	Type    EventType `msgpack:"type"`
	GameID  int64     `msgpack:"game_id"`
	Seating []string  `msgpack:"seating,omitempty"`
	BuyIn   float64   `msgpack:"buy_in"`
	First   string    `msgpack:"first,omitempty"`
	Second  string    `msgpack:"second,omitempty"`
	Third   string    `msgpack:"third,omitempty"`
}
