package flow

import "github.com/san-kum/flowgrid/internal/dynamo"

// Field is a dense grid of displacement vectors in row-major order.
type Field struct {
	Width, Height int
	Data          []dynamo.Vec
}

func NewField(width, height int) Field {
	return Field{Width: width, Height: height, Data: make([]dynamo.Vec, width*height)}
}

func (f Field) Empty() bool { return f.Width == 0 || f.Height == 0 }

func (f Field) At(x, y int) dynamo.Vec { return f.Data[y*f.Width+x] }

func (f *Field) Set(x, y int, v dynamo.Vec) { f.Data[y*f.Width+x] = v }

// Sample reads the cell containing the grid-space point (x, y). Coordinates
// are truncated and clamped to [0, dim-1] on each axis.
func (f Field) Sample(x, y float64) dynamo.Vec {
	if f.Empty() {
		return dynamo.Vec{}
	}
	cx := dynamo.ClampInt(int(x), 0, f.Width-1)
	cy := dynamo.ClampInt(int(y), 0, f.Height-1)
	return f.Data[cy*f.Width+cx]
}

// CopyFrom makes f an independent copy of src, reusing f's storage when it is large enough.
func (f *Field) CopyFrom(src Field) {
	n := len(src.Data)
	if cap(f.Data) < n {
		f.Data = make([]dynamo.Vec, n)
	}
	f.Data = f.Data[:n]
	copy(f.Data, src.Data)
	f.Width, f.Height = src.Width, src.Height
}

// MeanMagnitude is the average vector length over the grid.
func (f Field) MeanMagnitude() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range f.Data {
		sum += dynamo.Norm(v)
	}
	return sum / float64(len(f.Data))
}
