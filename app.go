package zenparticles

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any

	started  bool
	finished bool
	shutdown []func()
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Run steps frames until the app finishes, then runs shutdown hooks.
func (app *App) Run() {
	if app.stateful {
		app.Logger().Infof("Running in stateful mode...")
	} else {
		app.Logger().Infof("Running in stateless mode...")
	}
	defer app.Shutdown()

	for app.Step() {
	}
}

// Step runs one frame: every stage in order, with state transitions applied
// at the end of the frame. Returns false once the app has finished.
func (app *App) Step() bool {
	if app.finished {
		return false
	}
	if !app.started {
		app.started = true
		if app.stateful {
			app.state = app.initialState
			app.callSystems(app.state, enter)
		}
	}

	app.callSystems(app.state, execute)

	if app.stateful {
		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}

		if app.state == app.finalState {
			app.callSystems(app.state, exit)
			app.finished = true
		}
	}
	return !app.finished
}

func (app *App) State() State {
	return app.state
}

func (app *App) Finished() bool {
	return app.finished
}

// OnShutdown registers fn to run when the app stops. Hooks run in reverse
// registration order.
func (app *App) OnShutdown(fn func()) {
	app.shutdown = append(app.shutdown, fn)
}

func (app *App) Shutdown() {
	for i := len(app.shutdown) - 1; i >= 0; i-- {
		app.shutdown[i]()
	}
	app.shutdown = nil
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// On execute, call stateless/always run systems first
		if execute == phase {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if app.stateful {
			if systemsInStage, ok := app.systems[stage.Name]; ok {
				if systemsInState, ok := systemsInStage[state]; ok {
					for _, system := range systemsInState[phase] {
						app.callSystem(system)
					}
				}
			}
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) exit() {
	if app.stateful {
		if app.state != app.finalState {
			app.changeState(app.finalState)
		}
		return
	}
	app.finished = true
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// ensureResource returns the resource of type *T, creating it with mk when missing.
func ensureResource[T any](app *App, mk func() *T) *T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		return res.(*T)
	}
	res := mk()
	app.addResources(res)
	return res
}

// Resource looks up a resource by type.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
