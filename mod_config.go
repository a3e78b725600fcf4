package zenparticles

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reload debounce, editors often write a file in several steps
const configSettle = 100 * time.Millisecond

// ConfigModule installs the Config resource. With Watch set, later edits to
// the file are applied live: shape and color changes go through Controls.
type ConfigModule struct {
	Path   string
	Watch  bool
	Config *Config
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	cfg := m.Config
	if cfg == nil {
		var err error
		cfg, err = LoadConfig(m.Path)
		if err != nil {
			log.Errorf("config: %v", err)
			panic(err)
		}
	}
	cmd.AddResources(cfg)

	if !m.Watch || m.Path == "" {
		return
	}
	controls := ensureResource(app, NewControls)
	last := watchBaseline(log, m.Path, cfg)
	w := &ConfigWatcher{
		Path: m.Path,
		OnChange: func(next *Config) {
			applyConfigChange(log, controls, &last, next)
		},
		Log: log,
	}
	ensureBackground(app).Go("config-watch", w.Run)
}

// watchBaseline is what reloads are diffed against: the file as it is on disk
// now, so values that flags override stay in effect until the file itself
// changes them. The watcher goroutine owns the copy; the resource stays
// read-only.
func watchBaseline(log Logger, path string, merged *Config) Config {
	onDisk, err := LoadConfig(path)
	if err != nil {
		log.Warnf("config: baseline for watching: %v", err)
		return *merged
	}
	return *onDisk
}

// applyConfigChange forwards the live-editable fields of next. cur is
// updated in place so later diffs compare against what is on screen.
func applyConfigChange(log Logger, controls *Controls, cur, next *Config) {
	if next.Particles.Shape != cur.Particles.Shape {
		if err := controls.RequestShapeName(next.Particles.Shape); err != nil {
			log.Warnf("config: %v", err)
		} else {
			cur.Particles.Shape = next.Particles.Shape
		}
	}
	if next.Particles.Color != cur.Particles.Color {
		if err := controls.RequestColorHex(next.Particles.Color); err != nil {
			log.Warnf("config: %v", err)
		} else {
			cur.Particles.Color = next.Particles.Color
		}
	}
	if next.Debug != cur.Debug {
		cur.Debug = next.Debug
		log.SetDebug(next.Debug)
	}
}

// ConfigWatcher reloads Path whenever it changes on disk and hands valid
// configs to OnChange. Invalid edits are logged and skipped.
type ConfigWatcher struct {
	Path     string
	OnChange func(*Config)
	Log      Logger
}

func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer watcher.Close()

	path := filepath.Clean(w.Path)
	// Watch the directory: editors that save by rename drop watches on the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			settle = time.After(configSettle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Log.Warnf("config watcher: %v", err)
		case <-settle:
			settle = nil
			cfg, err := LoadConfig(path)
			if err != nil {
				w.Log.Warnf("config reload: %v", err)
				continue
			}
			w.Log.Infof("config reloaded from %s", path)
			w.OnChange(cfg)
		}
	}
}
