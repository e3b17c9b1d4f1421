package grove

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenTarget selects the local transform property a TweenComponent animates.
type TweenTarget uint8

const (
	TweenPosition TweenTarget = iota
	TweenScale
)

// TweenComponent animates its GameObject's local position or scale towards
// a target value. The start value is captured when the component is
// initialized. With Yoyo set the tween reverses every time it finishes.
type TweenComponent struct {
	BaseComponent

	Target   TweenTarget
	To       mgl32.Vec3
	Duration float32
	Ease     ease.TweenFunc
	Yoyo     bool

	from   mgl32.Vec3
	tweens [3]*gween.Tween
	done   bool
}

// NewTween creates a tween towards to over duration seconds. A nil easing
// function means linear.
func NewTween(target TweenTarget, to mgl32.Vec3, duration float32, fn ease.TweenFunc, updateOrder int) *TweenComponent {
	if fn == nil {
		fn = ease.Linear
	}
	return &TweenComponent{
		BaseComponent: newKindComponent(updateOrder, KindBehaviour),
		Target:        target,
		To:            to,
		Duration:      duration,
		Ease:          fn,
	}
}

// Initialize captures the start value and builds the per-axis tweens.
func (t *TweenComponent) Initialize() error {
	if t.Duration <= 0 {
		return fmt.Errorf("tween duration must be positive, got %v", t.Duration)
	}
	t.from = t.current()
	t.start(t.from, t.To)
	return nil
}

func (t *TweenComponent) start(from, to mgl32.Vec3) {
	for i := range t.tweens {
		t.tweens[i] = gween.New(from[i], to[i], t.Duration, t.Ease)
	}
	t.done = false
}

// Update advances the tween by dt seconds and writes the value to the owner.
func (t *TweenComponent) Update(dt float32) {
	if t.done || t.owner == nil || t.tweens[0] == nil {
		return
	}
	var v mgl32.Vec3
	allDone := true
	for i, tw := range t.tweens {
		val, finished := tw.Update(dt)
		v[i] = val
		if !finished {
			allDone = false
		}
	}
	t.apply(v)

	if allDone {
		if t.Yoyo {
			t.from, t.To = t.To, t.from
			t.start(t.from, t.To)
			return
		}
		t.done = true
	}
}

// Done reports whether a non-yoyo tween has reached its target.
func (t *TweenComponent) Done() bool {
	return t.done
}

func (t *TweenComponent) current() mgl32.Vec3 {
	if t.owner == nil {
		return mgl32.Vec3{}
	}
	if t.Target == TweenScale {
		return t.owner.Scale(Local)
	}
	return t.owner.Position(Local)
}

func (t *TweenComponent) apply(v mgl32.Vec3) {
	if t.Target == TweenScale {
		t.owner.SetScale(v, Local)
		return
	}
	t.owner.SetPosition(v, Local)
}

// easeFuncs names the easing functions accepted by scene files.
var easeFuncs = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_bounce":   ease.OutBounce,
	"out_elastic":  ease.OutElastic,
}

// EaseByName returns the easing function registered under name. An empty
// name is linear.
func EaseByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easeFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing function %q", name)
	}
	return fn, nil
}
