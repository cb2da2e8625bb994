package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const (
	luaMapperStage          = "path-map"
	defaultLuaTimeout       = 2 * time.Second
	sandboxTimeoutViolation = "sandbox timeout"
	sandboxMemoryViolation  = "sandbox memory limit"
	luaRegistrySize         = 256
	luaRegistryMaxSize      = 4096
)

// LuaMapper rewrites module paths with a user supplied Lua chunk. The chunk
// sees the globals `name`, `path` (the path computed by the wrapped mapper)
// and `minify`, and returns a replacement path or nil to keep `path`.
type LuaMapper struct {
	next    PathMapper
	proto   *lua.FunctionProto
	timeout time.Duration
}

// NewLuaMapper compiles code once; each MapModule call runs it in a fresh
// sandboxed state. A zero timeout selects the default.
func NewLuaMapper(code string, next PathMapper, timeout time.Duration) (*LuaMapper, error) {
	chunk, err := parse.Parse(strings.NewReader(code), luaMapperStage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", luaMapperStage, err)
	}
	proto, err := lua.Compile(chunk, luaMapperStage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", luaMapperStage, err)
	}
	if next == nil {
		next = TemplateMapper{}
	}
	if timeout <= 0 {
		timeout = defaultLuaTimeout
	}
	return &LuaMapper{next: next, proto: proto, timeout: timeout}, nil
}

// MapModule implements PathMapper.
func (m *LuaMapper) MapModule(name, source string, minifyOn bool) (string, error) {
	base, err := m.next.MapModule(name, source, minifyOn)
	if err != nil {
		return "", err
	}

	L := newSandboxLuaState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("name", lua.LString(name))
	L.SetGlobal("source", lua.LString(source))
	L.SetGlobal("path", lua.LString(base))
	L.SetGlobal("minify", lua.LBool(minifyOn))

	L.Push(L.NewFunctionFromProto(m.proto))
	if err := L.PCall(0, 1, nil); err != nil {
		if isTimeoutError(err) {
			return "", luaViolation(sandboxTimeoutViolation)
		}
		if strings.Contains(strings.ToLower(err.Error()), "registry overflow") {
			return "", luaViolation(sandboxMemoryViolation)
		}
		return "", fmt.Errorf("%s: %w", luaMapperStage, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	switch v := ret.(type) {
	case *lua.LNilType:
		return base, nil
	case lua.LString:
		if v == "" {
			return "", fmt.Errorf("%s: empty path for module %q", luaMapperStage, name)
		}
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: expected string or nil, got %s", luaMapperStage, ret.Type())
	}
}

func newSandboxLuaState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     luaRegistrySize,
		RegistryMaxSize:  luaRegistryMaxSize,
		RegistryGrowStep: 0,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib(lua.BaseLibName, lua.OpenBase)
	openLib(lua.StringLibName, lua.OpenString)
	openLib(lua.TabLibName, lua.OpenTable)
	openLib(lua.MathLibName, lua.OpenMath)
	return L
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "context canceled")
}

func luaViolation(violation string) error {
	return fmt.Errorf("%s: %s", luaMapperStage, violation)
}
