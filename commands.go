package zenparticles

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Exit requests shutdown. Stateful apps move to their final state at the end
// of the frame; stateless apps stop after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.exit()
}
