package grove

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// LuaScriptComponent drives its GameObject from a Lua script. Each
// component owns one VM. The script may define any of these globals:
//
//	function init() end         -- once, from Initialize
//	function input() end        -- every ProcessInput
//	function update(dt) end     -- every Update
//
// and can call the engine API:
//
//	name()                      -> owner name
//	position()                  -> x, y, z (local)
//	set_position(x, y, z)
//	scale()                     -> x, y, z (local)
//	set_scale(x, y, z)
//	rotate(degrees, ax, ay, az) -- about a local axis
//	key_down(key)               -> bool, key is an ebiten key name ("ArrowUp")
//	log(msg)
type LuaScriptComponent struct {
	BaseComponent

	path   string
	source string

	vm     *lua.LState
	failed bool
}

// NewLuaScript creates a script component that loads the file at path.
func NewLuaScript(path string, updateOrder int) *LuaScriptComponent {
	return &LuaScriptComponent{
		BaseComponent: newKindComponent(updateOrder, KindScript),
		path:          path,
	}
}

// NewLuaScriptString creates a script component from inline source.
func NewLuaScriptString(source string, updateOrder int) *LuaScriptComponent {
	return &LuaScriptComponent{
		BaseComponent: newKindComponent(updateOrder, KindScript),
		source:        source,
	}
}

// Initialize creates the VM, loads the script and calls its init function.
func (c *LuaScriptComponent) Initialize() error {
	if c.vm != nil {
		return nil
	}
	if c.owner == nil {
		return errors.New("script component is not attached")
	}

	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	c.register(vm)

	var err error
	if c.path != "" {
		err = vm.DoFile(c.path)
	} else {
		err = vm.DoString(c.source)
	}
	if err != nil {
		vm.Close()
		return fmt.Errorf("load script %s: %w", c.label(), err)
	}
	c.vm = vm
	c.owner.logger().Debug("loaded lua script", zap.String("script", c.label()), zap.String("object", c.owner.Name))

	if err := c.call("init"); err != nil {
		return fmt.Errorf("script %s init: %w", c.label(), err)
	}
	return nil
}

// ProcessInput calls the script's input function.
func (c *LuaScriptComponent) ProcessInput() {
	if err := c.call("input"); err != nil {
		c.fail("input", err)
	}
}

// Update calls the script's update function with dt.
func (c *LuaScriptComponent) Update(dt float32) {
	if err := c.call("update", lua.LNumber(dt)); err != nil {
		c.fail("update", err)
	}
}

// Dispose closes the VM.
func (c *LuaScriptComponent) Dispose() {
	if c.vm != nil {
		c.vm.Close()
		c.vm = nil
	}
}

// call invokes the global function name if the script defines it.
func (c *LuaScriptComponent) call(name string, args ...lua.LValue) error {
	if c.vm == nil || c.failed {
		return nil
	}
	fn := c.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	return c.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
}

// fail logs a runtime error and stops calling into the script.
func (c *LuaScriptComponent) fail(hook string, err error) {
	c.failed = true
	c.owner.logger().Error("lua script error",
		zap.String("script", c.label()),
		zap.String("hook", hook),
		zap.Error(err))
}

func (c *LuaScriptComponent) label() string {
	if c.path != "" {
		return c.path
	}
	return "<inline>"
}

func (c *LuaScriptComponent) register(vm *lua.LState) {
	vm.SetGlobal("name", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(c.owner.Name))
		return 1
	}))
	vm.SetGlobal("position", vm.NewFunction(func(L *lua.LState) int {
		return pushVec3(L, c.owner.Position(Local))
	}))
	vm.SetGlobal("set_position", vm.NewFunction(func(L *lua.LState) int {
		c.owner.SetPosition(checkVec3(L, 1), Local)
		return 0
	}))
	vm.SetGlobal("scale", vm.NewFunction(func(L *lua.LState) int {
		return pushVec3(L, c.owner.Scale(Local))
	}))
	vm.SetGlobal("set_scale", vm.NewFunction(func(L *lua.LState) int {
		c.owner.SetScale(checkVec3(L, 1), Local)
		return 0
	}))
	vm.SetGlobal("rotate", vm.NewFunction(func(L *lua.LState) int {
		deg := float32(L.CheckNumber(1))
		c.owner.Rotate(mgl32.DegToRad(deg), checkVec3(L, 2), Local)
		return 0
	}))
	vm.SetGlobal("key_down", vm.NewFunction(func(L *lua.LState) int {
		keys, err := parseKeys([]string{L.CheckString(1)})
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		pressed := false
		if s := c.owner.owningScene(); s != nil {
			pressed = s.input.KeyPressed(keys[0])
		}
		L.Push(lua.LBool(pressed))
		return 1
	}))
	vm.SetGlobal("log", vm.NewFunction(func(L *lua.LState) int {
		c.owner.logger().Info("lua", zap.String("object", c.owner.Name), zap.String("msg", L.CheckString(1)))
		return 0
	}))
}

func pushVec3(L *lua.LState, v mgl32.Vec3) int {
	L.Push(lua.LNumber(v[0]))
	L.Push(lua.LNumber(v[1]))
	L.Push(lua.LNumber(v[2]))
	return 3
}

func checkVec3(L *lua.LState, first int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(L.CheckNumber(first)),
		float32(L.CheckNumber(first + 1)),
		float32(L.CheckNumber(first + 2)),
	}
}
