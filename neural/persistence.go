package neural

import (
	"gonum.org/v1/gonum/mat"

	"demandcast/core/model"
	"demandcast/pkg/errors"
)

// netState is the serializable snapshot of a network: layer sizes plus the
// flattened weights and biases. It doubles as the early-stopping best-weight
// snapshot and the persisted artifact payload.
type netState struct {
	Sizes   []int
	Weights [][]float64
	Biases  [][]float64
}

func (n *Network) snapshot() *netState {
	st := &netState{
		Sizes:   append([]int(nil), n.sizes...),
		Weights: make([][]float64, len(n.weights)),
		Biases:  make([][]float64, len(n.biases)),
	}
	for l, w := range n.weights {
		raw := w.RawMatrix()
		st.Weights[l] = append([]float64(nil), raw.Data...)
		st.Biases[l] = append([]float64(nil), n.biases[l]...)
	}
	return st
}

func (n *Network) restore(st *netState) {
	for l := range st.Weights {
		out, in := n.sizes[l+1], n.sizes[l]
		n.weights[l] = mat.NewDense(out, in, append([]float64(nil), st.Weights[l]...))
		n.biases[l] = append([]float64(nil), st.Biases[l]...)
	}
}

// MarshalBinary serializes the fitted network for the artifact store.
func (n *Network) MarshalBinary() ([]byte, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("Network", "MarshalBinary")
	}
	return model.EncodeArtifact(n.snapshot())
}

// UnmarshalBinary restores a network from artifact bytes. The persisted
// layer sizes must match the receiver's architecture, so a stale artifact
// trained under a different lookback or horizon is rejected instead of
// silently misused.
func (n *Network) UnmarshalBinary(data []byte) error {
	var st netState
	if err := model.DecodeArtifact(data, &st); err != nil {
		return err
	}
	if len(st.Sizes) != len(n.sizes) {
		return errors.NewDimensionError("Network.UnmarshalBinary", len(n.sizes), len(st.Sizes))
	}
	for i, s := range st.Sizes {
		if s != n.sizes[i] {
			return errors.NewDimensionError("Network.UnmarshalBinary", n.sizes[i], s)
		}
	}
	n.restore(&st)
	n.SetFitted()
	return nil
}
