package model

import (
	"bytes"
	"encoding/gob"

	"demandcast/pkg/errors"
)

// EncodeArtifact gob-encodes an estimator state into a byte slice suitable
// for the artifact store. The value must be a concrete serializable struct,
// not an interface.
func EncodeArtifact(state interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, errors.Wrap(err, "encoding artifact")
	}
	return buf.Bytes(), nil
}

// DecodeArtifact decodes a byte slice produced by EncodeArtifact into state,
// which must be a pointer.
func DecodeArtifact(data []byte, state interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(state); err != nil {
		return errors.Wrap(err, "decoding artifact")
	}
	return nil
}
