package flow

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowgrid/internal/dynamo"
)

// Algorithm computes a dense displacement field from prev to curr.
// Both images have the same bounds; the field has one cell per pixel.
type Algorithm interface {
	Name() string
	Compute(prev, curr *image.Gray) (Field, error)
}

// LucasKanade is a dense, single-scale Lucas-Kanade estimator. Each pixel
// solves the 2x2 normal equations over a square window; windows whose
// structure tensor has a small minimum eigenvalue are left at zero.
type LucasKanade struct {
	Window   int
	MinEigen float64

	w, h          int
	ix, iy, it    []float64
	sxx, sxy, syy []float64
	sxt, syt      []float64
	field         Field
	ata           *mat.Dense
	atb, uv       *mat.VecDense
}

func NewLucasKanade(window int, minEigen float64) *LucasKanade {
	if window < 1 {
		window = 1
	}
	return &LucasKanade{
		Window:   window,
		MinEigen: minEigen,
		ata:      mat.NewDense(2, 2, nil),
		atb:      mat.NewVecDense(2, nil),
		uv:       mat.NewVecDense(2, nil),
	}
}

func (lk *LucasKanade) Name() string { return "lucas-kanade" }

func (lk *LucasKanade) Compute(prev, curr *image.Gray) (Field, error) {
	if prev.Rect.Size() != curr.Rect.Size() {
		return Field{}, fmt.Errorf("lucas-kanade: %v vs %v: %w", prev.Rect, curr.Rect, dynamo.ErrDimensionMismatch)
	}
	w, h := prev.Rect.Dx(), prev.Rect.Dy()
	lk.resize(w, h)
	lk.gradients(prev, curr)

	n := (w + 1) * (h + 1)
	products := [][]float64{lk.sxx, lk.sxy, lk.syy, lk.sxt, lk.syt}
	for _, s := range products {
		clear(s[:n])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			gx, gy, gt := lk.ix[i], lk.iy[i], lk.it[i]
			lk.accumulate(x, y, gx*gx, gx*gy, gy*gy, gx*gt, gy*gt)
		}
	}

	r := lk.Window / 2
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h, y+r+1)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w, x+r+1)
			sxx := boxSum(lk.sxx, w, x0, y0, x1, y1)
			sxy := boxSum(lk.sxy, w, x0, y0, x1, y1)
			syy := boxSum(lk.syy, w, x0, y0, x1, y1)
			sxt := boxSum(lk.sxt, w, x0, y0, x1, y1)
			syt := boxSum(lk.syt, w, x0, y0, x1, y1)
			lk.field.Set(x, y, lk.solve(sxx, sxy, syy, sxt, syt))
		}
	}
	return lk.field, nil
}

func (lk *LucasKanade) resize(w, h int) {
	if lk.w == w && lk.h == h {
		return
	}
	lk.w, lk.h = w, h
	lk.ix = make([]float64, w*h)
	lk.iy = make([]float64, w*h)
	lk.it = make([]float64, w*h)
	n := (w + 1) * (h + 1)
	lk.sxx = make([]float64, n)
	lk.sxy = make([]float64, n)
	lk.syy = make([]float64, n)
	lk.sxt = make([]float64, n)
	lk.syt = make([]float64, n)
	lk.field = NewField(w, h)
}

// gradients fills spatial derivatives of the mean image (central differences,
// one-sided at the border) and the temporal difference.
func (lk *LucasKanade) gradients(prev, curr *image.Gray) {
	w, h := lk.w, lk.h
	at := func(x, y int) float64 {
		p := prev.Pix[y*prev.Stride+x]
		c := curr.Pix[y*curr.Stride+x]
		return (float64(p) + float64(c)) / 510
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			xl, xr := max(0, x-1), min(w-1, x+1)
			yu, yd := max(0, y-1), min(h-1, y+1)
			if xr > xl {
				lk.ix[i] = (at(xr, y) - at(xl, y)) / float64(xr-xl)
			} else {
				lk.ix[i] = 0
			}
			if yd > yu {
				lk.iy[i] = (at(x, yd) - at(x, yu)) / float64(yd-yu)
			} else {
				lk.iy[i] = 0
			}
			lk.it[i] = (float64(curr.Pix[y*curr.Stride+x]) - float64(prev.Pix[y*prev.Stride+x])) / 255
		}
	}
}

// accumulate writes one cell of the summed-area tables. Tables are
// (w+1) x (h+1) with a zero first row and column.
func (lk *LucasKanade) accumulate(x, y int, vxx, vxy, vyy, vxt, vyt float64) {
	stride := lk.w + 1
	i := (y+1)*stride + x + 1
	up, left, diag := i-stride, i-1, i-stride-1
	lk.sxx[i] = vxx + lk.sxx[up] + lk.sxx[left] - lk.sxx[diag]
	lk.sxy[i] = vxy + lk.sxy[up] + lk.sxy[left] - lk.sxy[diag]
	lk.syy[i] = vyy + lk.syy[up] + lk.syy[left] - lk.syy[diag]
	lk.sxt[i] = vxt + lk.sxt[up] + lk.sxt[left] - lk.sxt[diag]
	lk.syt[i] = vyt + lk.syt[up] + lk.syt[left] - lk.syt[diag]
}

func boxSum(table []float64, w, x0, y0, x1, y1 int) float64 {
	stride := w + 1
	return table[y1*stride+x1] - table[y0*stride+x1] - table[y1*stride+x0] + table[y0*stride+x0]
}

func (lk *LucasKanade) solve(sxx, sxy, syy, sxt, syt float64) dynamo.Vec {
	// smaller eigenvalue of the symmetric structure tensor
	tr := sxx + syy
	disc := math.Sqrt((sxx-syy)*(sxx-syy) + 4*sxy*sxy)
	if (tr-disc)/2 < lk.MinEigen || (tr-disc)/2 <= 0 {
		return dynamo.Vec{}
	}
	lk.ata.Set(0, 0, sxx)
	lk.ata.Set(0, 1, sxy)
	lk.ata.Set(1, 0, sxy)
	lk.ata.Set(1, 1, syy)
	lk.atb.SetVec(0, -sxt)
	lk.atb.SetVec(1, -syt)
	if err := lk.uv.SolveVec(lk.ata, lk.atb); err != nil {
		return dynamo.Vec{}
	}
	v := dynamo.V(lk.uv.AtVec(0), lk.uv.AtVec(1))
	if !dynamo.IsValid(v) {
		return dynamo.Vec{}
	}
	return v
}

// NullFlow produces an all-zero field. It keeps the pipeline running when
// the particles should stay tethered.
type NullFlow struct {
	field Field
}

func (*NullFlow) Name() string { return "none" }

func (n *NullFlow) Compute(prev, curr *image.Gray) (Field, error) {
	if prev.Rect.Size() != curr.Rect.Size() {
		return Field{}, fmt.Errorf("none: %v vs %v: %w", prev.Rect, curr.Rect, dynamo.ErrDimensionMismatch)
	}
	w, h := curr.Rect.Dx(), curr.Rect.Dy()
	if n.field.Width != w || n.field.Height != h {
		n.field = NewField(w, h)
	}
	return n.field, nil
}
