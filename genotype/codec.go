package genotype

import "github.com/vmihailenco/msgpack/v5"

// Encode serializes the genotype to its at-rest wire format, grounded on
// qubicDB-qubicdb/pkg/persistence/codec.go's use of msgpack as the
// persistence-layer codec rather than JSON, for compact fixed-schema
// storage of many small records.
func (g *Genotype) Encode() ([]byte, error) {
	return msgpack.Marshal(g)
}

// Decode deserializes a genotype previously produced by Encode.
func Decode(data []byte) (*Genotype, error) {
	g := &Genotype{}
	if err := msgpack.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}
