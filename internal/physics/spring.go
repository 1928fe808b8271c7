package physics

import "github.com/san-kum/flowgrid/internal/dynamo"

// Spring tethers a moving endpoint to a fixed anchor.
type Spring struct {
	anchor         dynamo.Vec
	endpoint       dynamo.Vec
	restLength     float64
	stiffness      float64
	detachDistance float64
	active         bool
}

func NewSpring(anchor, endpoint dynamo.Vec, params Params) Spring {
	return Spring{
		anchor:         anchor,
		endpoint:       endpoint,
		restLength:     params.RestLength,
		stiffness:      params.Stiffness,
		detachDistance: params.DetachDistance,
		active:         true,
	}
}

// Force moves the endpoint to p and returns the restoring force
// -k * (|p-anchor| - restLength) along the anchor→p direction.
// A zero-length spring yields the zero vector.
func (s *Spring) Force(p dynamo.Vec) dynamo.Vec {
	s.endpoint = p
	delta := dynamo.Sub(s.endpoint, s.anchor)
	distance := dynamo.Norm(delta)
	if distance == 0 {
		return dynamo.Vec{}
	}
	stretch := distance - s.restLength
	return dynamo.Scale(-s.stiffness*stretch, dynamo.Scale(1/distance, delta))
}

// UpdateActivity latches the spring inactive once the endpoint is farther
// than the detach distance from the anchor. It never re-arms.
func (s *Spring) UpdateActivity() {
	if dynamo.Dist(s.endpoint, s.anchor) > s.detachDistance {
		s.active = false
	}
}

func (s *Spring) SetActive(active bool) { s.active = active }
func (s *Spring) IsActive() bool        { return s.active }

func (s *Spring) Anchor() dynamo.Vec   { return s.anchor }
func (s *Spring) Endpoint() dynamo.Vec { return s.endpoint }

// Length is the current anchor-to-endpoint distance.
func (s *Spring) Length() float64 { return dynamo.Dist(s.endpoint, s.anchor) }
