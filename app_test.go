package zenparticles

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
	}

	app.changeState(2)
	if app.nextState != State(2) {
		t.Errorf("The nextState should be set correctly.")
	}
	if !app.stateTransitioning {
		t.Errorf("The stateTransitioning flag should be true.")
	}

	app.executeChangeState(2)
	if app.state != State(2) {
		t.Errorf("The app state should change correctly.")
	}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)
}

func TestApp_ensureResource(t *testing.T) {
	app := NewAppBuilder().Build()
	calls := 0
	mk := func() *MockResource1 {
		calls++
		return NewMockResource1("made")
	}

	a := ensureResource(app, mk)
	b := ensureResource(app, mk)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestApp_StepRunsStagesInOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	var got []string
	app.addResources(&got)
	record := func(name string) func(*[]string) {
		return func(log *[]string) { *log = append(*log, name) }
	}
	app.UseSystem(System(record("render")).InStage(Render))
	app.UseSystem(System(record("update")).InStage(Update))
	app.UseSystem(System(record("prelude")).InStage(Prelude))

	require.True(t, app.Step())
	assert.Equal(t, []string{"prelude", "update", "render"}, got)
}

func TestApp_StatefulLifecycle(t *testing.T) {
	app := NewAppBuilder().UseStates(StateWaiting, StateExit).Build()
	var events []string
	app.addResources(&events)
	on := func(name string) func(*[]string) {
		return func(e *[]string) { *e = append(*e, name) }
	}
	app.UseSystem(System(on("enter waiting")).InState(OnEnter(StateWaiting)))
	app.UseSystem(System(func(cmd *Commands, e *[]string) {
		*e = append(*e, "exec waiting")
		cmd.ChangeState(StateRunning)
	}).InState(OnExecute(StateWaiting)))
	app.UseSystem(System(on("exit waiting")).InState(OnExit(StateWaiting)))
	app.UseSystem(System(on("enter running")).InState(OnEnter(StateRunning)))
	app.UseSystem(System(func(cmd *Commands, e *[]string) {
		*e = append(*e, "exec running")
		cmd.Exit()
	}).InState(OnExecute(StateRunning)))
	app.UseSystem(System(on("exit running")).InState(OnExit(StateRunning)))
	app.UseSystem(System(on("enter exit")).InState(OnEnter(StateExit)))
	app.UseSystem(System(on("exit exit")).InState(OnExit(StateExit)))

	assert.True(t, app.Step())
	assert.Equal(t, StateRunning, app.State())
	assert.False(t, app.Step())
	assert.True(t, app.Finished())
	assert.False(t, app.Step(), "finished app stays finished")

	assert.Equal(t, []string{
		"enter waiting", "exec waiting", "exit waiting", "enter running",
		"exec running", "exit running", "enter exit", "exit exit",
	}, events)
}

func TestApp_StatelessExit(t *testing.T) {
	app := NewAppBuilder().Build()
	frames := 0
	app.addResources(&frames)
	app.UseSystem(System(func(n *int, cmd *Commands) {
		*n++
		if *n == 3 {
			cmd.Exit()
		}
	}))

	app.Run()
	assert.Equal(t, 3, frames)
}

func TestApp_ShutdownHooksRunInReverse(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []int
	app.OnShutdown(func() { order = append(order, 1) })
	app.OnShutdown(func() { order = append(order, 2) })

	app.Shutdown()
	app.Shutdown()
	assert.Equal(t, []int{2, 1}, order)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(r *MockResource1) {}))

	assert.Panics(t, func() { app.Step() })
}

func TestApp_StatefulSystemInStatelessAppPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.PanicsWithValue(t, "Trying to use a stateful system in a stateless app.", func() {
		app.UseSystem(System(func() {}).InState(OnEnter(StateRunning)))
	})
}

func TestApp_UseStage(t *testing.T) {
	app := NewAppBuilder().Build()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	idx := -1
	for i, s := range app.stages {
		if s.Name == custom.Name {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx)
	assert.Equal(t, "Update", app.stages[idx-1].Name)

	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "Missing"})) })
}
