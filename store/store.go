// Package store persists pipeline artifacts: one scaler record per product
// and one predictor artifact per (architecture, product). Keys are content
// addresses derived from those identities, so the storage mechanism can be
// swapped without touching the pipeline.
package store

import "fmt"

// ArtifactStore is the minimal persistence capability the pipeline needs.
// Get returns an ArtifactNotFoundError (pkg/errors) for missing keys; the
// flows translate that into a skip, never a failure.
type ArtifactStore interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Exists(key string) (bool, error)
	Close() error
}

// ScalerKey addresses the persisted {mean, std} record of a product.
func ScalerKey(product string) string {
	return fmt.Sprintf("scaler/%s", product)
}

// PredictorKey addresses the trained artifact of one (architecture, product)
// pair.
func PredictorKey(architecture, product string) string {
	return fmt.Sprintf("predictor/%s/%s", architecture, product)
}
