package config

import "sort"

var Presets = map[string]*Config{
	"classic": {Height: 5, Width: 5, InitialOnProbability: 0.25},
	"tiny":    {Height: 3, Width: 3, InitialOnProbability: 0.5},
	"large":   {Height: 8, Width: 8, InitialOnProbability: 0.5},
	"blank":   {Height: 5, Width: 5, InitialOnProbability: 0},
	"full":    {Height: 5, Width: 5, InitialOnProbability: 1},
	"hard":    {Height: 7, Width: 7, InitialOnProbability: 0.5, EnsureSolvable: true},
}

// GetPreset returns a copy of the named preset with the non-board settings
// taken from the defaults, or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Height = p.Height
	cfg.Width = p.Width
	cfg.InitialOnProbability = p.InitialOnProbability
	cfg.EnsureSolvable = p.EnsureSolvable
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
