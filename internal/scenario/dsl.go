// Package scenario runs scripted mission resolutions written in Lua.
//
// A script builds a mission brief step by step and declares expectations
// about the resolved report:
//
//	local s = Scenario.new("granary sweep")
//	s:mission("sabotage", { seed = 41 })
//	s:location("Granary Annex", { archetype = "industrial", security = 0.3 })
//	s:agent("vera", { stealth = 0.8, resolve = 0.7, commitment = 0.9 })
//	s:expect({ outcome = "success", min_progress = 0.6 })
//	return s
//
// Loading a script records the calls as ordered steps; the Runner folds
// them into a brief, resolves it in process, and checks the expectations.
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	lua "github.com/Shopify/go-lua"
)

const scenarioTypeName = "cadre.Scenario"

// Scenario is the ordered list of steps a script produced.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one recorded DSL call.
type Step struct {
	Kind string
	Args map[string]any
}

func (s *Scenario) appendStep(kind string, args map[string]any) {
	s.Steps = append(s.Steps, Step{Kind: kind, Args: args})
}

// LoadFile executes a Lua scenario script and returns the scenario it built.
// The script must end with `return s`. A scenario without an explicit name
// takes the script's base name.
func LoadFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run scenario %s: %w", path, err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		return nil, fmt.Errorf("scenario %s must return a Scenario value", path)
	}
	scenario, ok := state.ToUserData(-1).(*Scenario)
	if !ok {
		return nil, fmt.Errorf("scenario %s returned an unexpected value", path)
	}
	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "mission", Function: scenarioMission},
	{Name: "location", Function: scenarioLocation},
	{Name: "agent", Function: scenarioAgent},
	{Name: "trust", Function: scenarioTrust},
	{Name: "tuning", Function: scenarioTuning},
	{Name: "expect", Function: scenarioExpect},
	{Name: "expect_agent", Function: scenarioExpectAgent},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	scenario, ok := lua.CheckUserData(state, 1, scenarioTypeName).(*Scenario)
	if !ok {
		lua.ArgumentError(state, 1, "expected a Scenario value")
	}
	return scenario
}

func scenarioMission(state *lua.State) int {
	scenario := checkScenario(state)
	args := map[string]any{"kind": lua.CheckString(state, 2)}
	mergeTable(state, 3, args)
	scenario.appendStep("mission", args)
	return 0
}

func scenarioLocation(state *lua.State) int {
	scenario := checkScenario(state)
	args := map[string]any{"name": lua.CheckString(state, 2)}
	lua.CheckType(state, 3, lua.TypeTable)
	mergeTable(state, 3, args)
	scenario.appendStep("location", args)
	return 0
}

func scenarioAgent(state *lua.State) int {
	scenario := checkScenario(state)
	args := map[string]any{"id": lua.CheckString(state, 2)}
	mergeTable(state, 3, args)
	scenario.appendStep("agent", args)
	return 0
}

func scenarioTrust(state *lua.State) int {
	scenario := checkScenario(state)
	args := map[string]any{
		"from":  lua.CheckString(state, 2),
		"to":    lua.CheckString(state, 3),
		"trust": lua.CheckNumber(state, 4),
	}
	if !state.IsNoneOrNil(5) {
		args["loyalty"] = lua.CheckNumber(state, 5)
	}
	scenario.appendStep("trust", args)
	return 0
}

func scenarioTuning(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	scenario.appendStep("tuning", tableToMap(state, 2))
	return 0
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	scenario.appendStep("expect", tableToMap(state, 2))
	return 0
}

func scenarioExpectAgent(state *lua.State) int {
	scenario := checkScenario(state)
	args := map[string]any{"id": lua.CheckString(state, 2)}
	lua.CheckType(state, 3, lua.TypeTable)
	mergeTable(state, 3, args)
	scenario.appendStep("expect_agent", args)
	return 0
}

func mergeTable(state *lua.State, index int, into map[string]any) {
	if state.IsNoneOrNil(index) {
		return
	}
	lua.CheckType(state, index, lua.TypeTable)
	for key, value := range tableToMap(state, index) {
		into[key] = value
	}
}

// tableToMap converts the table at index to a map, keeping string keys only.
func tableToMap(state *lua.State, index int) map[string]any {
	index = state.AbsIndex(index)
	result := map[string]any{}
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			if key, ok := state.ToString(-2); ok {
				result[key] = luaToGo(state, -1)
			}
		}
		state.Pop(1)
	}
	return result
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	case lua.TypeUserData:
		return state.ToUserData(index)
	default:
		return nil
	}
}

// tableToGo converts a nested table, producing a slice when the keys form a
// dense 1..n sequence and a map otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	maxIndex := 0
	count := 0
	arrayLike := true

	state.PushNil()
	for state.Next(index) {
		count++
		if state.TypeOf(-2) == lua.TypeNumber {
			key, _ := state.ToNumber(-2)
			whole := int(key)
			if float64(whole) == key && whole > 0 {
				if whole > maxIndex {
					maxIndex = whole
				}
			} else {
				arrayLike = false
			}
		} else {
			arrayLike = false
		}
		state.Pop(1)
	}

	if arrayLike && maxIndex == count {
		items := make([]any, 0, count)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			items = append(items, luaToGo(state, -1))
			state.Pop(1)
		}
		return items
	}
	return tableToMap(state, index)
}

// normalizeNumber keeps whole Lua numbers as ints so seeds and counts survive
// the float trip.
func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
