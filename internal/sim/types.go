package sim

import "time"

// TickStats is what one simulation tick observed.
type TickStats struct {
	Tick          int     `json:"tick" csv:"tick"`
	Detached      int     `json:"detached" csv:"detached"`
	Total         int     `json:"total" csv:"total"`
	Ratio         float64 `json:"ratio" csv:"ratio"`
	Threshold     float64 `json:"threshold" csv:"threshold"`
	Reset         bool    `json:"reset" csv:"reset"`
	HaveField     bool    `json:"have_field" csv:"have_field"`
	FieldVersion  uint64  `json:"field_version" csv:"field_version"`
	KineticEnergy float64 `json:"kinetic_energy" csv:"kinetic_energy"`
	OffScreen     int     `json:"off_screen" csv:"off_screen"`
}

type Metric interface {
	Name() string
	Observe(s TickStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(scene *Scene, s TickStats)
}

// Config controls the runner's schedule. Ticks == 0 runs until the context
// is cancelled; FPS == 0 ticks as fast as possible.
type Config struct {
	Ticks  int
	FPS    int
	Record bool
}

type Result struct {
	Ticks      []TickStats
	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration
}
