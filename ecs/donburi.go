package ecs

import (
	"github.com/phanxgames/drizzle"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SignalEventType is the Donburi event type for drizzle host signals.
var SignalEventType = events.NewEventType[drizzle.Signal]()

// Handler receives host signals. *drizzle.Engine implements it.
type Handler interface {
	Handle(sig drizzle.Signal)
}

// Bind subscribes h to SignalEventType in world. Signals are delivered when
// the world's events are processed.
func Bind(world donburi.World, h Handler) {
	SignalEventType.Subscribe(world, func(w donburi.World, sig drizzle.Signal) {
		h.Handle(sig)
	})
}

// Publish queues sig for every handler bound to world.
func Publish(world donburi.World, sig drizzle.Signal) {
	SignalEventType.Publish(world, sig)
}

// Flush delivers queued signals.
func Flush(world donburi.World) {
	SignalEventType.ProcessEvents(world)
}
