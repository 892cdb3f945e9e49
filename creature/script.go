package creature

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

// idleDispatchScript is appended to every idle script. Scripts define
// `idling := func(creature, memory) { ... }`.
const idleDispatchScript = `
idling(__creature, __memory)
`

// Scripted runs a tengo script as the idle behaviour. The script sees a
// read-mostly `creature` object and a `memory` map that survives between
// ticks. A script that fails at runtime is disabled after the first error.
type Scripted struct {
	compiled *tengo.Compiled
	memory   *tengo.Map
	log      *zap.Logger
	failed   bool
}

// NewScripted compiles src.
func NewScripted(src []byte, log *zap.Logger) (*Scripted, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, fmt.Errorf("%w: empty idle script", ErrInvalidData)
	}
	if log == nil {
		log = zap.NewNop()
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + idleDispatchScript))
	_ = script.Add("__creature", map[string]any{})
	_ = script.Add("__memory", map[string]any{})
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("creature: compile idle script: %w", err)
	}
	return &Scripted{
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
		log:      log,
	}, nil
}

func (s *Scripted) Idling(c *Creature) {
	if s == nil || s.failed {
		return
	}
	if err := s.run(c); err != nil {
		s.failed = true
		s.log.Warn("creature: idle script disabled", zap.Error(err))
	}
}

// Memory exposes the script's persistent map.
func (s *Scripted) Memory() map[string]tengo.Object {
	return s.memory.Value
}

func (s *Scripted) run(c *Creature) error {
	if err := s.compiled.Set("__creature", scriptCreature(c)); err != nil {
		return err
	}
	if err := s.compiled.Set("__memory", s.memory); err != nil {
		return err
	}
	return s.compiled.Run()
}

func scriptCreature(c *Creature) *tengo.ImmutableMap {
	d := c.data
	values := map[string]tengo.Object{
		"name":       &tengo.String{Value: d.Name},
		"busy":       boolObject(c.IsBusy()),
		"has_target": boolObject(c.HasTarget()),
		"now":        &tengo.Float{Value: c.clock.Now()},
		"dt":         &tengo.Float{Value: c.clock.DeltaTime()},
	}

	values["graze"] = &tengo.UserFunction{Name: "graze", Value: func(args ...tengo.Object) (tengo.Object, error) {
		Graze{}.Idling(c)
		return boolObject(c.IsBusy()), nil
	}}

	// trigger(target, duration, cooldown, loops) ramps the State parameter.
	values["trigger"] = &tengo.UserFunction{Name: "trigger", Value: func(args ...tengo.Object) (tengo.Object, error) {
		req := RampRequest{
			Target:   d.AnimationParameterTargetValue,
			Duration: d.TimeToReachTargetValue,
			Param:    c.params.State,
			Cooldown: d.CooldownTime,
			Loops:    d.TimesToLoopAnimation,
		}
		if len(args) > 0 {
			req.Target = floatArg(args[0], req.Target)
		}
		if len(args) > 1 {
			req.Duration = floatArg(args[1], req.Duration)
		}
		if len(args) > 2 {
			req.Cooldown = floatArg(args[2], req.Cooldown)
		}
		if len(args) > 3 {
			if n, ok := tengo.ToInt(args[3]); ok {
				req.Loops = n
			}
		}
		c.TriggerStateTransition(req)
		return boolObject(c.IsBusy()), nil
	}}

	values["set_float"] = &tengo.UserFunction{Name: "set_float", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		id := c.anim.ParamID(objectAsString(args[0]))
		v, ok := tengo.ToFloat64(args[1])
		if !ok {
			return tengo.FalseValue, nil
		}
		c.setFloat(id, v)
		return tengo.TrueValue, nil
	}}

	values["get_float"] = &tengo.UserFunction{Name: "get_float", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return &tengo.Float{}, nil
		}
		return &tengo.Float{Value: c.anim.Float(c.anim.ParamID(objectAsString(args[0])))}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		c.log.Debug("creature: script", zap.String("msg", strings.Join(parts, " ")))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func floatArg(obj tengo.Object, fallback float64) float64 {
	if v, ok := tengo.ToFloat64(obj); ok {
		return v
	}
	return fallback
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
