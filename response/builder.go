// Package response implements the Response Builder (§4.E): the hot path
// that concatenates pre-serialized JSON row text returned by the
// database directly into HTTP response bytes, with no intermediate
// parse into Go values and no intermediate json.Marshal back out. The
// snake_case to camelCase key table is derived once from the
// CompiledSchema (shape.go); TransformRow applies it to each row's keys.
package response

import (
	"bytes"

	"github.com/fraiseql/fraiseql"
)

// Builder assembles a GraphQL response envelope by transforming and
// appending raw JSON row text -- rewriting snake_case keys to camelCase
// and injecting `__typename` per shape.RowShape -- without ever
// decoding a row into Go values. A Builder is single-use: construct one
// per request field with New, then call BuildList or BuildSingle.
type Builder struct {
	buf   bytes.Buffer
	scratch []byte
}

// New returns a Builder pre-sized for fieldName and rows, per
// EstimateSize.
func New(fieldName string, rows [][]byte) *Builder {
	b := &Builder{}
	b.buf.Grow(EstimateSize(fieldName, rows))
	return b
}

// BuildList writes {"data":{fieldName:[row0,row1,...]}}, transforming
// each row through shape (nil means copy the row unchanged) and
// validating each row's bytes are well-formed UTF-8 before appending
// it. A malformed row aborts the whole build with a
// *fraiseql.RowDecodeError identifying its position, matching §7's
// DataError variant.
func (b *Builder) BuildList(fieldName string, rows [][]byte, shape *RowShape) ([]byte, error) {
	b.buf.WriteString(`{"data":{"`)
	b.buf.WriteString(fieldName)
	b.buf.WriteString(`":[`)
	for i, row := range rows {
		if err := ValidateUTF8(row); err != nil {
			return nil, &fraiseql.RowDecodeError{RowIndex: i, Cause: err}
		}
		if i > 0 {
			b.buf.WriteByte(',')
		}
		transformed, err := TransformRow(b.scratch[:0], row, shape)
		if err != nil {
			return nil, &fraiseql.RowDecodeError{RowIndex: i, Cause: err}
		}
		b.scratch = transformed
		b.buf.Write(transformed)
	}
	b.buf.WriteString(`]}}`)
	return b.buf.Bytes(), nil
}

// BuildSingle writes {"data":{fieldName:row}}, or {"data":{fieldName:null}}
// if row is nil (no matching row found), transforming row through shape
// as BuildList does.
func (b *Builder) BuildSingle(fieldName string, row []byte, shape *RowShape) ([]byte, error) {
	b.buf.WriteString(`{"data":{"`)
	b.buf.WriteString(fieldName)
	b.buf.WriteString(`":`)
	if row == nil {
		b.buf.WriteString(`null`)
	} else {
		if err := ValidateUTF8(row); err != nil {
			return nil, &fraiseql.RowDecodeError{RowIndex: 0, Cause: err}
		}
		transformed, err := TransformRow(b.scratch[:0], row, shape)
		if err != nil {
			return nil, &fraiseql.RowDecodeError{RowIndex: 0, Cause: err}
		}
		b.scratch = transformed
		b.buf.Write(transformed)
	}
	b.buf.WriteString(`}}`)
	return b.buf.Bytes(), nil
}

// BuildErrors writes a GraphQL error envelope: {"errors":[...]}. Used
// when execution fails before any partial data is available; partial
// success (data plus errors) is assembled by the executor, which calls
// BuildList/BuildSingle for the data half and appends a separately
// rendered errors array itself (§7).
func BuildErrors(rendered []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(`{"errors":}`) + len(rendered))
	buf.WriteString(`{"errors":`)
	buf.Write(rendered)
	buf.WriteByte('}')
	return buf.Bytes()
}
