package zenparticles

import (
	"context"

	"github.com/gekko3d/zenparticles/pointcloud/pc/gesture"
)

// GestureModule connects hand trackers to the openness mailbox. Listen
// starts the websocket endpoint; Demo publishes a synthetic breathing signal
// instead of waiting for a tracker.
type GestureModule struct {
	Listen string
	Demo   bool
}

func (m GestureModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	mb := ensureResource(app, func() *gesture.Mailbox { return &gesture.Mailbox{} })
	controls := ensureResource(app, NewControls)
	bg := ensureBackground(app)

	if m.Listen != "" {
		srv := gesture.NewServer(mb, log)
		srv.OnControl = func(shape, color string) {
			applyRemoteControl(log, controls, shape, color)
		}
		addr := m.Listen
		bg.Go("gesture-server", func(ctx context.Context) error {
			log.Infof("gesture: listening on ws://%s%s", addr, gesture.Path)
			return srv.ListenAndServe(ctx, addr)
		})
	}
	if m.Demo {
		bg.Go("gesture-demo", gesture.NewOscillator(mb).Run)
	}
	if m.Listen == "" && !m.Demo {
		log.Warnf("gesture: no tracker endpoint and no demo signal, openness stays at 0")
	}

	if app.stateful {
		app.UseSystem(
			System(gestureReadySystem).
				InStage(PreUpdate).
				InState(OnExecute(StateWaiting)),
		)
		app.UseSystem(
			System(func() { log.Infof("gesture: tracking hand") }).
				InStage(PreUpdate).
				InState(OnEnter(StateRunning)),
		)
	}
}

// gestureReadySystem leaves the waiting state once the first sample arrives.
func gestureReadySystem(mb *gesture.Mailbox, cmd *Commands) {
	if _, ok := mb.Latest(); ok {
		cmd.ChangeState(StateRunning)
	}
}

func applyRemoteControl(log Logger, controls *Controls, shape, color string) {
	if shape != "" {
		if err := controls.RequestShapeName(shape); err != nil {
			log.Warnf("gesture: shape %q: %v", shape, err)
		}
	}
	if color != "" {
		if err := controls.RequestColorHex(color); err != nil {
			log.Warnf("gesture: color %q: %v", color, err)
		}
	}
}
