package service

// Broadcaster pushes events to rooms of live websocket clients. The realtime
// hub satisfies this; services receive it as a constructed dependency, so a
// not-yet-initialized broadcaster is not a reachable state on the
// notification path.
type Broadcaster interface {
	EmitToRoom(room, event string, payload interface{})
	EmitGlobal(event string, payload interface{})
}
