package config

import "sort"

var Presets = map[string]*Config{
	"binary": {
		G: 1, Softening: 0.01, Dt: 0.001, Duration: 10.0, Seed: DefaultSeed,
		Integrator: "leapfrog",
		InitState: InitStateConfig{
			Bodies: [][]float64{
				{50, -1, 0, 0, 0, 3.5355, 0},
				{50, 1, 0, 0, 0, -3.5355, 0},
			},
		},
		View: ViewConfig{FPS: DefaultFPS, ViewLim: 3},
	},
	"trio": {
		G: 1, Softening: 0.05, Dt: 0.001, Duration: 20.0, Seed: DefaultSeed,
		Integrator: "leapfrog",
		InitState: InitStateConfig{
			NumBodies: 3, EqualMass: true, Scale: 2,
		},
		View: ViewConfig{FPS: DefaultFPS, ViewLim: 5, Autoscroll: true},
	},
	"cluster": {
		G: 1, Softening: 0.1, Dt: 0.01, Duration: 10.0, Seed: DefaultSeed,
		Integrator: "leapfrog",
		InitState: InitStateConfig{
			NumBodies: 50, InitVel: true, Scale: 10,
		},
		View: ViewConfig{FPS: DefaultFPS, ViewLim: 20, Autoscroll: true},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.InitState.Bodies = make([][]float64, len(cfg.InitState.Bodies))
	for i, row := range cfg.InitState.Bodies {
		c.InitState.Bodies[i] = append([]float64(nil), row...)
	}
	if len(c.InitState.Bodies) == 0 {
		c.InitState.Bodies = nil
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
