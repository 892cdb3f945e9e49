// Package anim is an in-process animation parameter sink. Parameters are
// registered by name and addressed by handle; bindings pick the playing clip
// from parameter values the way an animator graph would.
package anim

import (
	"errors"
	"fmt"

	"github.com/milk9111/beastmind/component"
)

var (
	ErrNoClips      = errors.New("anim: no clips defined")
	ErrUnknownClip  = errors.New("anim: unknown clip")
	ErrInvalidClip  = errors.New("anim: invalid clip")
	ErrEmptyBinding = errors.New("anim: binding without parameter")
)

// Clip is one animation with its length in seconds.
type Clip struct {
	Name   string  `yaml:"name"`
	Length float64 `yaml:"length"`
}

// Binding plays Clip while Param is at least Min. A bool parameter counts
// as 1 when set.
type Binding struct {
	Param string  `yaml:"param"`
	Min   float64 `yaml:"min"`
	Clip  string  `yaml:"clip"`
}

// Spec describes an animator.
type Spec struct {
	Params      []string  `yaml:"params"`
	DefaultClip string    `yaml:"default_clip"`
	Clips       []Clip    `yaml:"clips"`
	Bindings    []Binding `yaml:"bindings"`
}

type binding struct {
	param component.ParamID
	min   float64
	clip  string
}

// Animator implements component.Animator.
type Animator struct {
	ids      map[string]component.ParamID
	names    []string
	floats   []float64
	bools    []bool
	triggers []int

	clips       map[string]float64
	bindings    []binding
	defaultClip string
	current     string
	clipTime    float64

	emitter EventEmitter
}

var _ component.Animator = (*Animator)(nil)

// New builds an animator from spec. Bindings are evaluated in order; the
// first match wins.
func New(spec Spec) (*Animator, error) {
	if len(spec.Clips) == 0 {
		return nil, ErrNoClips
	}
	a := &Animator{
		ids:   make(map[string]component.ParamID),
		clips: make(map[string]float64, len(spec.Clips)),
	}
	for _, c := range spec.Clips {
		if c.Name == "" || c.Length < 0 {
			return nil, fmt.Errorf("%w: %q length %v", ErrInvalidClip, c.Name, c.Length)
		}
		a.clips[c.Name] = c.Length
	}
	a.defaultClip = spec.DefaultClip
	if a.defaultClip == "" {
		a.defaultClip = spec.Clips[0].Name
	}
	if _, ok := a.clips[a.defaultClip]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownClip, a.defaultClip)
	}
	for _, p := range spec.Params {
		a.ParamID(p)
	}
	for _, b := range spec.Bindings {
		if b.Param == "" {
			return nil, fmt.Errorf("%w: clip %q", ErrEmptyBinding, b.Clip)
		}
		if _, ok := a.clips[b.Clip]; !ok {
			return nil, fmt.Errorf("%w: %q bound to %s", ErrUnknownClip, b.Clip, b.Param)
		}
		a.bindings = append(a.bindings, binding{param: a.ParamID(b.Param), min: b.Min, clip: b.Clip})
	}
	a.current = a.defaultClip
	return a, nil
}

// ParamID returns the handle for name, registering it on first use.
func (a *Animator) ParamID(name string) component.ParamID {
	if name == "" {
		return component.InvalidParam
	}
	if id, ok := a.ids[name]; ok {
		return id
	}
	id := component.ParamID(len(a.names))
	a.ids[name] = id
	a.names = append(a.names, name)
	a.floats = append(a.floats, 0)
	a.bools = append(a.bools, false)
	a.triggers = append(a.triggers, 0)
	return id
}

func (a *Animator) valid(id component.ParamID) bool {
	return id >= 0 && int(id) < len(a.names)
}

// ParamName is the inverse of ParamID.
func (a *Animator) ParamName(id component.ParamID) string {
	if !a.valid(id) {
		return ""
	}
	return a.names[id]
}

func (a *Animator) SetFloat(id component.ParamID, v float64) {
	if !a.valid(id) {
		return
	}
	a.floats[id] = v
	a.selectClip()
}

func (a *Animator) Float(id component.ParamID) float64 {
	if !a.valid(id) {
		return 0
	}
	return a.floats[id]
}

func (a *Animator) SetBool(id component.ParamID, v bool) {
	if !a.valid(id) {
		return
	}
	a.bools[id] = v
	a.selectClip()
}

func (a *Animator) Bool(id component.ParamID) bool {
	if !a.valid(id) {
		return false
	}
	return a.bools[id]
}

func (a *Animator) SetTrigger(id component.ParamID) {
	if !a.valid(id) {
		return
	}
	a.triggers[id]++
	a.emitter.Emit(a, Event{Type: EventTrigger, Param: a.names[id], Clip: a.current})
}

// ConsumeTrigger clears one pending trigger and reports whether there was
// one.
func (a *Animator) ConsumeTrigger(id component.ParamID) bool {
	if !a.valid(id) || a.triggers[id] == 0 {
		return false
	}
	a.triggers[id]--
	return true
}

// Play forces clip until the next parameter write re-evaluates bindings.
func (a *Animator) Play(clip string) error {
	if _, ok := a.clips[clip]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClip, clip)
	}
	a.switchClip(clip)
	return nil
}

// Step advances playback of the current clip.
func (a *Animator) Step(dt float64) {
	a.clipTime += dt
	if l := a.clips[a.current]; l > 0 {
		for a.clipTime >= l {
			a.clipTime -= l
			a.emitter.Emit(a, Event{Type: EventClipLooped, Clip: a.current})
		}
	}
}

func (a *Animator) ClipLength() float64 { return a.clips[a.current] }

func (a *Animator) Current() string { return a.current }

// NormalizedTime is the playback position of the current clip in [0,1).
func (a *Animator) NormalizedTime() float64 {
	l := a.clips[a.current]
	if l <= 0 {
		return 0
	}
	return a.clipTime / l
}

// OnEvent registers h for clip and trigger events.
func (a *Animator) OnEvent(h Handler) {
	if h != nil {
		a.emitter.Handlers = append(a.emitter.Handlers, h)
	}
}

func (a *Animator) selectClip() {
	clip := a.defaultClip
	for _, b := range a.bindings {
		v := a.floats[b.param]
		if a.bools[b.param] {
			v = max(v, 1)
		}
		if v >= b.min {
			clip = b.clip
			break
		}
	}
	a.switchClip(clip)
}

func (a *Animator) switchClip(clip string) {
	if clip == a.current {
		return
	}
	prev := a.current
	a.current = clip
	a.clipTime = 0
	a.emitter.Emit(a, Event{Type: EventClipChanged, Clip: clip, Previous: prev})
}
