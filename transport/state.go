// File: transport/state.go
// Author: momentics <momentics@gmail.com>

package transport

// State is the connection's lifecycle state. Transitions are monotone per
// session: once Disconnected is reached, no further events fire for it.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Disconnecting
	// Interrupted marks a momentary reliable-channel error that is
	// retried internally before a disconnect decision is made. It is
	// transparent to the facade except via Connection.InterruptedCount.
	Interrupted
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnecting:
		return "disconnecting"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}
