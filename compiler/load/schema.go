// Package load reads a Schema IR document off disk and decodes it into
// ir.Document. It is the compiler's only filesystem-facing package; the
// rest of the compiler operates purely on in-memory structures so it can
// be driven from cmd/fraiseql, from tests, or from an embedded caller
// with no file path at all.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fraiseql/fraiseql/ir"
)

// Document reads path and decodes it as a Schema IR document. JSON is the
// only supported on-disk encoding (§6); YAML authoring tools are expected
// to emit JSON before invoking the compiler.
func Document(path string) (*ir.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema document %s: %w", path, err)
	}
	return DecodeDocument(data)
}

// DecodeDocument decodes raw JSON bytes as a Schema IR document, for
// callers that already have the bytes (an embedded caller, a test
// fixture, an HTTP upload in `compile --check` tooling).
func DecodeDocument(data []byte) (*ir.Document, error) {
	var doc ir.Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schema document: %w", err)
	}
	return &doc, nil
}
