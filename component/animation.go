package component

// ParamID is an animator-resolved handle for a named parameter. Handles are
// resolved once at setup and reused every tick.
type ParamID int

// InvalidParam is returned for names the animator does not know. Writes to it
// are ignored.
const InvalidParam ParamID = -1

// Animator is the animation parameter sink.
type Animator interface {
	ParamID(name string) ParamID
	SetFloat(id ParamID, v float64)
	Float(id ParamID) float64
	SetBool(id ParamID, v bool)
	SetTrigger(id ParamID)
	// ClipLength is the length in seconds of the clip currently playing on
	// the base layer.
	ClipLength() float64
}
