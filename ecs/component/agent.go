package component

import "github.com/google/uuid"

// Agent identifies a simulated character and the prefab it was built from.
type Agent struct {
	ID     uuid.UUID
	Prefab string
}

var AgentComponent = NewComponent[Agent]()
