package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// canonicalSchema is the sort-stable shape hashed and persisted for a
// CompiledSchema (§4.C phase 6, §3 invariant 5). Go map iteration order
// is not stable, so every map in CompiledSchema is flattened into a
// name-sorted slice here before encoding; CompiledAt is deliberately
// excluded so two compiles of the same input at different times hash
// identically.
type canonicalSchema struct {
	Target      string
	SourceTypes []string
	Types       []canonicalType
	Query       []CompiledOperation
	Mutation    []CompiledOperation
	Entities    []EntityBinding
}

type canonicalType struct {
	Name          string
	Where         []canonicalWhereField
	BoundSource   *canonicalBoundSource
	KeysetColumns []string
	Arrow         []canonicalArrowBatch
	RowFilters    []string
	Federation    CompiledFederation
	Fields        []CompiledField
}

type canonicalBoundSource struct {
	View              string
	JSONBColumn       string
	PrimaryKeyColumns []string
}

type canonicalWhereField struct {
	Field     string
	Semantic  string
	Operators []string
}

type canonicalArrowBatch struct {
	Name   string
	Fields []canonicalArrowField
}

type canonicalArrowField struct {
	Name       string
	Type       string
	Nullable   bool
	ForeignKey string
	Masking    string
}

func canonicalize(s *CompiledSchema) canonicalSchema {
	out := canonicalSchema{
		Target:      string(s.Target),
		SourceTypes: append([]string(nil), s.SourceTypes...),
		Query:       s.Query,
		Mutation:    s.Mutation,
		Entities:    append([]EntityBinding(nil), s.Entities...),
	}
	sort.Strings(out.SourceTypes)
	sort.Slice(out.Entities, func(i, j int) bool { return out.Entities[i].Typename < out.Entities[j].Typename })

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := s.Types[name]
		ct := canonicalType{
			Name:          name,
			KeysetColumns: t.KeysetColumns,
			RowFilters:    t.Authorization.RowFilters,
			Federation:    t.Federation,
			Fields:        t.Fields,
		}
		if t.BoundSource != nil {
			ct.BoundSource = &canonicalBoundSource{
				View:              t.BoundSource.View,
				JSONBColumn:       t.BoundSource.JSONBColumn,
				PrimaryKeyColumns: t.BoundSource.PrimaryKeyColumns,
			}
		}

		whereNames := make([]string, 0, len(t.Where))
		for fieldName := range t.Where {
			whereNames = append(whereNames, fieldName)
		}
		sort.Strings(whereNames)
		for _, fieldName := range whereNames {
			w := t.Where[fieldName]
			ct.Where = append(ct.Where, canonicalWhereField{
				Field:     fieldName,
				Semantic:  string(w.Semantic),
				Operators: w.Operators,
			})
		}

		for _, batch := range t.Arrow {
			cb := canonicalArrowBatch{Name: batch.Name}
			for _, f := range batch.Fields {
				cb.Fields = append(cb.Fields, canonicalArrowField{
					Name:       f.Name,
					Type:       string(f.Type),
					Nullable:   f.Nullable,
					ForeignKey: f.ForeignKey,
					Masking:    f.Masking,
				})
			}
			ct.Arrow = append(ct.Arrow, cb)
		}

		out.Types = append(out.Types, ct)
	}

	return out
}

// computeHash msgpack-encodes the canonical form of s and returns its
// hex-encoded sha256 digest. msgpack is the same encoding Marshal uses
// for the distributed artifact, but the hash covers the canonical form
// above, not the bytes Marshal produces: those still carry CompiledAt
// and Go maps in their unsorted form.
func computeHash(s *CompiledSchema) (string, error) {
	payload := canonicalize(s)
	encoded, err := msgpack.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// Marshal serializes a CompiledSchema to its distributable msgpack
// form, suitable for writing to a `.compiled` artifact file.
func Marshal(s *CompiledSchema) ([]byte, error) {
	return msgpack.Marshal(s)
}

// Unmarshal decodes a `.compiled` artifact back into a CompiledSchema.
func Unmarshal(data []byte) (*CompiledSchema, error) {
	var s CompiledSchema
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
