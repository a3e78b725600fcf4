package zenparticles

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// TimeModule advances the Time resource once per frame. A non-zero FixedDt
// replaces wall-clock deltas, which keeps headless renders reproducible.
type TimeModule struct {
	FixedDt time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	if mod.FixedDt > 0 {
		fixed := mod.FixedDt
		app.UseSystem(
			System(func(t *Time) {
				t.Dt = fixed
				t.Time = t.Time.Add(fixed)
			}).InStage(Prelude).RunAlways(),
		)
		return
	}
	app.UseSystem(System(timeSystem).InStage(Prelude).RunAlways())
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
