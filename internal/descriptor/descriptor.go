// Package descriptor decodes persisted model descriptors.
//
// Every descriptor shares one envelope:
//
//	{
//	  "kind":       "knn" | "random_forest" | "logistic_regression" | "svm" | "empirical",
//	  "params":     { kind-specific hyperparameters },
//	  "features":   { feature spec, see package features },
//	  "classes":    [ ordered class labels ],
//	  "model_data": { kind-specific arrays }
//	}
//
// The envelope is validated against the kind's JSON Schema before the
// typed model data is decoded.
package descriptor

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/formcheck/internal/features"
)

// Kind names a classifier family.
type Kind string

const (
	KindKNN                Kind = "knn"
	KindRandomForest       Kind = "random_forest"
	KindLogisticRegression Kind = "logistic_regression"
	KindSVM                Kind = "svm"
	KindEmpirical          Kind = "empirical"
)

// Kinds lists the descriptor kinds with a schema.
var Kinds = []Kind{KindKNN, KindRandomForest, KindLogisticRegression, KindSVM, KindEmpirical}

// Descriptor is a decoded, schema-valid envelope. ModelData stays raw
// until the engine for Kind decodes it.
type Descriptor struct {
	Kind      Kind            `json:"kind"`
	Params    json.RawMessage `json:"params"`
	Features  features.Spec   `json:"features"`
	Classes   []string        `json:"classes"`
	ModelData json.RawMessage `json:"model_data"`
}

// Decode validates raw against the schema for kind and decodes the
// envelope. A "kind" field inside the document, when present, must agree
// with kind.
func Decode(kind Kind, raw []byte) (*Descriptor, error) {
	if err := validate(kind, raw); err != nil {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, &Error{Kind: kind, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if d.Kind != "" && d.Kind != kind {
		return nil, &Error{Kind: kind, Err: fmt.Errorf("descriptor declares kind %q", d.Kind)}
	}
	d.Kind = kind
	return &d, nil
}

// DecodeModelData unmarshals the kind-specific model data into v.
func (d *Descriptor) DecodeModelData(v any) error {
	if err := json.Unmarshal(d.ModelData, v); err != nil {
		return &Error{Kind: d.Kind, Err: fmt.Errorf("decode model_data: %w", err)}
	}
	return nil
}

// DecodeParams unmarshals the kind-specific hyperparameters into v.
// Missing params leave v untouched.
func (d *Descriptor) DecodeParams(v any) error {
	if len(d.Params) == 0 || string(d.Params) == "null" {
		return nil
	}
	if err := json.Unmarshal(d.Params, v); err != nil {
		return &Error{Kind: d.Kind, Err: fmt.Errorf("decode params: %w", err)}
	}
	return nil
}

// Error reports a malformed descriptor.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s descriptor: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
