package compiler

import (
	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/ir"
)

// maxArrowHops is the shallow-batch depth limit for the Arrow plane
// (§3, §4.I): a chain of foreign keys starting at any batch may cross at
// most two batch-to-batch hops (A -> B -> C is allowed, A -> B -> C -> D
// is not).
const maxArrowHops = 2

// resolveArrowProjections is phase 5 (§4.C, §4.I). ir.Validate already
// checked that every foreign key target exists and is non-nullable;
// this phase enforces the two-hop depth ceiling, the one structural
// constraint that needs the whole type's batch graph at once rather
// than one foreign key at a time.
func resolveArrowProjections(typeDef *ir.TypeDef) ([]ir.ArrowBatch, error) {
	depth := make(map[string]int, len(typeDef.ArrowProjections))
	byName := make(map[string]ir.ArrowBatch, len(typeDef.ArrowProjections))
	for _, batch := range typeDef.ArrowProjections {
		byName[batch.Name] = batch
	}

	var hopDepth func(name string, seen map[string]bool) (int, error)
	hopDepth = func(name string, seen map[string]bool) (int, error) {
		if d, ok := depth[name]; ok {
			return d, nil
		}
		if seen[name] {
			return 0, &fraiseql.UnrepresentableArrowTypeError{
				Batch:  name,
				Field:  "",
				Reason: "cyclic foreign key chain",
			}
		}
		seen[name] = true

		maxChildDepth := 0
		batch := byName[name]
		for _, f := range batch.Fields {
			if f.ForeignKey == "" {
				continue
			}
			targetBatch := f.ForeignKey[:indexByte(f.ForeignKey, '.')]
			childDepth, err := hopDepth(targetBatch, seen)
			if err != nil {
				return 0, err
			}
			if childDepth+1 > maxChildDepth {
				maxChildDepth = childDepth + 1
			}
		}
		depth[name] = maxChildDepth
		return maxChildDepth, nil
	}

	for _, batch := range typeDef.ArrowProjections {
		d, err := hopDepth(batch.Name, map[string]bool{})
		if err != nil {
			return nil, err
		}
		if d > maxArrowHops {
			return nil, &fraiseql.UnrepresentableArrowTypeError{
				Batch:  batch.Name,
				Field:  "",
				Reason: "exceeds the two-hop shallow batch depth limit",
			}
		}
	}

	return typeDef.ArrowProjections, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
