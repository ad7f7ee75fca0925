package seedstore

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gosm/sequence"
)

// A Codec encodes candidates for storage. Both sides must agree on the
// concrete State and Transition types.
type Codec[S, T any] interface {
	Encode(c sequence.Candidate[S, T]) ([]byte, error)
	Decode(data []byte) (sequence.Candidate[S, T], error)
}

// The stored document. Kept separate from sequence.Candidate so the storage
// format does not change when the engine type does.
type candidateDoc[S, T any] struct {
	Initial     S   `yaml:"initial"`
	Transitions []T `yaml:"transitions"`
}

type yamlCodec[S, T any] struct{}

// YAML returns a codec encoding candidates as YAML documents. It works for
// any State and Transition types the yaml package can marshal; models with
// unexported or interface-typed data need their own Codec.
func YAML[S, T any]() Codec[S, T] {
	return yamlCodec[S, T]{}
}

func (yamlCodec[S, T]) Encode(c sequence.Candidate[S, T]) ([]byte, error) {
	data, err := yaml.Marshal(candidateDoc[S, T]{
		Initial:     c.Initial,
		Transitions: c.Transitions,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not encode candidate")
	}
	return data, nil
}

func (yamlCodec[S, T]) Decode(data []byte) (sequence.Candidate[S, T], error) {
	var doc candidateDoc[S, T]
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return sequence.Candidate[S, T]{}, errors.WithMessage(err, "could not decode candidate")
	}
	return sequence.Candidate[S, T]{
		Initial:     doc.Initial,
		Transitions: doc.Transitions,
	}, nil
}
