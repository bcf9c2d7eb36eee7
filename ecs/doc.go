// Package ecs bridges drizzle host signals through a [Donburi] world.
//
// Games that already route input through Donburi publish [drizzle.Signal]
// values on [SignalEventType]; [Bind] subscribes an Engine so the signals
// reach it when the world processes its events.
//
// Usage:
//
//	ecs.Bind(world, engine)
//	ecs.Publish(world, drizzle.SignalActivity)
//	// once per frame, in the game's update:
//	ecs.SignalEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
