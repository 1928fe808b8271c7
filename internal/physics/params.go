package physics

const (
	DefaultStiffness      = 0.01
	DefaultRestLength     = 0.0
	DefaultDetachDistance = 125.0
	DefaultDrag           = 0.01
	DefaultFieldMin       = 0.1
	DefaultFieldMax       = 0.3
	DefaultFieldGain      = 0.1
)

// Params holds the tunable constants of the spring and particle model.
type Params struct {
	Stiffness      float64 // spring constant k
	RestLength     float64 // natural spring length
	DetachDistance float64 // anchor distance beyond which a spring latches inactive
	Drag           float64 // linear drag coefficient applied to force
	FieldMin       float64 // deadzone: clamped field magnitudes below this contribute nothing
	FieldMax       float64 // field magnitude clamp
	FieldGain      float64 // field force = gain * clampedMagnitude * sample
}

func DefaultParams() Params {
	return Params{
		Stiffness:      DefaultStiffness,
		RestLength:     DefaultRestLength,
		DetachDistance: DefaultDetachDistance,
		Drag:           DefaultDrag,
		FieldMin:       DefaultFieldMin,
		FieldMax:       DefaultFieldMax,
		FieldGain:      DefaultFieldGain,
	}
}

// GetParams returns the parameters keyed by their config names.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness":       p.Stiffness,
		"rest_length":     p.RestLength,
		"detach_distance": p.DetachDistance,
		"drag":            p.Drag,
		"field_min":       p.FieldMin,
		"field_max":       p.FieldMax,
		"field_gain":      p.FieldGain,
	}
}

// SetParam updates a single parameter by config name. Unknown names are ignored.
func (p *Params) SetParam(name string, value float64) {
	switch name {
	case "stiffness":
		p.Stiffness = value
	case "rest_length":
		p.RestLength = value
	case "detach_distance":
		p.DetachDistance = value
	case "drag":
		p.Drag = value
	case "field_min":
		p.FieldMin = value
	case "field_max":
		p.FieldMax = value
	case "field_gain":
		p.FieldGain = value
	}
}
