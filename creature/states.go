package creature

import "github.com/milk9111/beastmind/fsm"

var (
	_ fsm.State[*Creature] = (*idleState)(nil)
	_ fsm.State[*Creature] = (*patrolState)(nil)
	_ fsm.State[*Creature] = (*chaseState)(nil)
)

type idleState struct {
	elapsed float64
}

func (s *idleState) Enter(c *Creature) {
	s.elapsed = 0
}

func (s *idleState) Update(c *Creature) {
	s.elapsed += c.clock.DeltaTime()
	if c.idle != nil {
		c.idle.Idling(c)
	}
	s.CheckTransitions(c)
}

func (s *idleState) Exit(c *Creature) {}

// CheckTransitions prefers the idle timeout over a pending target.
func (s *idleState) CheckTransitions(c *Creature) {
	if s.elapsed >= c.data.IdleDuration && !c.IsBusy() {
		c.machine.Switch(Idle, Patrol)
		return
	}
	if c.target != nil {
		c.machine.Switch(Idle, Chase)
	}
}

type patrolState struct{}

func (s *patrolState) Enter(c *Creature) {
	c.movement = c.patrol
	c.movement.StartMovement(c)
}

func (s *patrolState) Update(c *Creature) {
	c.movement.Move(c)
	s.CheckTransitions(c)
}

func (s *patrolState) Exit(c *Creature) {
	c.agent.SetUpdateRotation(true)
	if c.agent.OnNavMesh() {
		c.agent.ResetPath()
	}
	c.setFloat(c.params.Vert, 0)
}

func (s *patrolState) CheckTransitions(c *Creature) {
	if c.agent.PathPending() {
		return
	}
	arrived := c.agent.RemainingDistance() <= c.agent.StoppingDistance()
	lost := !c.agent.HasPath()
	if (arrived || lost) && c.agent.Velocity().SqrMagnitude() < movingSqrSpeed {
		c.machine.Switch(Patrol, Idle)
		return
	}
	if c.target != nil {
		c.machine.Switch(Patrol, Chase)
	}
}

type chaseState struct{}

func (s *chaseState) Enter(c *Creature) {
	c.movement = c.chase
	c.movement.StartMovement(c)
}

func (s *chaseState) Update(c *Creature) {
	if c.target != nil {
		c.movement.Move(c)
	}
	s.CheckTransitions(c)
}

func (s *chaseState) Exit(c *Creature) {
	c.agent.ResetPath()
}

func (s *chaseState) CheckTransitions(c *Creature) {
	if c.target == nil {
		c.machine.Switch(Chase, Idle)
	}
}
