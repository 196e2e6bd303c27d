package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// adam holds the per-parameter first and second moment estimates of the
// Adam optimizer, one pair per layer for weights and biases.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int

	mW, vW []*mat.Dense
	mB, vB [][]float64
}

func newAdam(sizes []int, lr float64) *adam {
	layers := len(sizes) - 1
	a := &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		mW:    make([]*mat.Dense, layers),
		vW:    make([]*mat.Dense, layers),
		mB:    make([][]float64, layers),
		vB:    make([][]float64, layers),
	}
	for l := 0; l < layers; l++ {
		in, out := sizes[l], sizes[l+1]
		a.mW[l] = mat.NewDense(out, in, nil)
		a.vW[l] = mat.NewDense(out, in, nil)
		a.mB[l] = make([]float64, out)
		a.vB[l] = make([]float64, out)
	}
	return a
}

// step applies one bias-corrected Adam update to a layer in place. The step
// counter advances once per batch: backpropagation visits the output layer
// first, so the increment hangs off that layer index.
func (a *adam) step(l int, W *mat.Dense, b []float64, gradW *mat.Dense, gradB []float64) {
	if l == len(a.mW)-1 {
		a.t++
	}
	t := a.t
	if t == 0 {
		t = 1
	}
	c1 := 1 - math.Pow(a.beta1, float64(t))
	c2 := 1 - math.Pow(a.beta2, float64(t))

	r, c := W.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			g := gradW.At(i, j)
			m := a.beta1*a.mW[l].At(i, j) + (1-a.beta1)*g
			v := a.beta2*a.vW[l].At(i, j) + (1-a.beta2)*g*g
			a.mW[l].Set(i, j, m)
			a.vW[l].Set(i, j, v)
			W.Set(i, j, W.At(i, j)-a.lr*(m/c1)/(math.Sqrt(v/c2)+a.eps))
		}
	}
	for j := range b {
		g := gradB[j]
		m := a.beta1*a.mB[l][j] + (1-a.beta1)*g
		v := a.beta2*a.vB[l][j] + (1-a.beta2)*g*g
		a.mB[l][j] = m
		a.vB[l][j] = v
		b[j] -= a.lr * (m / c1) / (math.Sqrt(v/c2) + a.eps)
	}
}
