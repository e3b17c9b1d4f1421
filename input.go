package grove

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// Input is the keyboard state read by input-driven components during
// ProcessInput.
type Input interface {
	KeyPressed(key ebiten.Key) bool
}

// EbitenInput reads the live keyboard through ebiten.
type EbitenInput struct{}

// KeyPressed reports whether key is held down.
func (EbitenInput) KeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// inputStepper is implemented by input sources that advance once per frame.
// Scene.Frame steps them before the input traversal.
type inputStepper interface {
	step()
}

// --- Scripted input ---

// inputStep is a single action in an input script.
type inputStep struct {
	Action string   `yaml:"action"`
	Keys   []string `yaml:"keys,omitempty"`
	Label  string   `yaml:"label,omitempty"`
	Frames int      `yaml:"frames,omitempty"`
}

// inputScript is the top-level YAML structure for an input script.
type inputScript struct {
	Steps []inputStep `yaml:"steps"`
}

// ScriptedInput replays keyboard input from a script, one step per frame.
// Keys stay held from their "press" step until a "release" step. It lets
// scenes run headless and makes input-driven components testable.
//
// Supported actions: press, release, wait (frames), screenshot (label).
type ScriptedInput struct {
	steps     []inputStep
	cursor    int
	waitCount int
	done      bool

	held map[ebiten.Key]bool

	// OnScreenshot is called for "screenshot" steps. Game sets it to queue
	// a capture of the next drawn frame.
	OnScreenshot func(label string)
}

// NewScriptedInput returns a ScriptedInput with no steps. Keys can be driven
// directly with Press and Release.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{held: make(map[ebiten.Key]bool), done: true}
}

// LoadInputScript parses a YAML input script:
//
//	steps:
//	  - action: press
//	    keys: [ArrowLeft]
//	  - action: wait
//	    frames: 30
//	  - action: release
//	    keys: [ArrowLeft]
func LoadInputScript(data []byte) (*ScriptedInput, error) {
	var script inputScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "press", "release":
			if len(st.Keys) == 0 {
				return nil, fmt.Errorf("parse input script: step %d: %s without keys", i, st.Action)
			}
			if _, err := parseKeys(st.Keys); err != nil {
				return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
			}
		case "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptedInput{steps: script.Steps, held: make(map[ebiten.Key]bool)}, nil
}

// KeyPressed reports whether key is currently held by the script.
func (in *ScriptedInput) KeyPressed(key ebiten.Key) bool {
	return in.held[key]
}

// Press holds keys down until they are released.
func (in *ScriptedInput) Press(keys ...ebiten.Key) {
	for _, k := range keys {
		in.held[k] = true
	}
}

// Release lets go of keys.
func (in *ScriptedInput) Release(keys ...ebiten.Key) {
	for _, k := range keys {
		delete(in.held, k)
	}
}

// Done reports whether every step of the script has been executed.
func (in *ScriptedInput) Done() bool {
	return in.done
}

// step advances the script by one frame.
func (in *ScriptedInput) step() {
	if in.done {
		return
	}
	if in.waitCount > 0 {
		in.waitCount--
		return
	}
	if in.cursor >= len(in.steps) {
		in.done = true
		return
	}

	st := in.steps[in.cursor]
	in.cursor++

	switch st.Action {
	case "press":
		keys, _ := parseKeys(st.Keys)
		in.Press(keys...)
	case "release":
		keys, _ := parseKeys(st.Keys)
		in.Release(keys...)
	case "wait":
		if st.Frames > 0 {
			in.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		if in.OnScreenshot != nil {
			in.OnScreenshot(st.Label)
		}
	}

	if in.cursor >= len(in.steps) && in.waitCount == 0 {
		in.done = true
	}
}

// parseKeys converts key names ("ArrowUp", "A", "Space") to ebiten keys.
func parseKeys(names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
