package response

import (
	"fmt"
)

// TransformRow appends row's JSON value to dst, rewriting object keys
// per shape's rename table and injecting `__typename` at every object
// root shape names, recursing into nested objects/arrays per the
// field's own nested shape (§4.E, §8 property 3: "nested objects/arrays
// are recursed"). A nil shape copies row unchanged (already-camelCased
// or untyped passthrough values). This is the one place the hot path
// actually looks at row bytes instead of just appending them --
// everything else in Builder is pure concatenation.
func TransformRow(dst []byte, row []byte, shape *RowShape) ([]byte, error) {
	dst, pos, err := transformValue(dst, row, skipWS(row, 0), shape)
	if err != nil {
		return nil, err
	}
	pos = skipWS(row, pos)
	if pos != len(row) {
		return nil, fmt.Errorf("response: trailing bytes after row value at offset %d", pos)
	}
	return dst, nil
}

func skipWS(data []byte, pos int) int {
	for pos < len(data) {
		switch data[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// transformValue copies the JSON value starting at pos into dst,
// applying shape if the value is an object (or an array of objects, in
// which case shape applies to each element). It returns the advanced
// dst and the position immediately after the value.
func transformValue(dst []byte, data []byte, pos int, shape *RowShape) ([]byte, int, error) {
	if pos >= len(data) {
		return nil, 0, fmt.Errorf("response: unexpected end of row JSON at offset %d", pos)
	}
	switch data[pos] {
	case '{':
		return transformObject(dst, data, pos, shape)
	case '[':
		return transformArray(dst, data, pos, shape)
	case '"':
		end, err := skipString(data, pos)
		if err != nil {
			return nil, 0, err
		}
		return append(dst, data[pos:end]...), end, nil
	default:
		end := skipLiteral(data, pos)
		return append(dst, data[pos:end]...), end, nil
	}
}

func transformObject(dst []byte, data []byte, pos int, shape *RowShape) ([]byte, int, error) {
	if data[pos] != '{' {
		return nil, 0, fmt.Errorf("response: expected '{' at offset %d", pos)
	}
	pos++
	dst = append(dst, '{')
	wroteAny := false

	if shape != nil && shape.Typename != "" {
		dst = append(dst, `"__typename":"`...)
		dst = append(dst, shape.Typename...)
		dst = append(dst, '"')
		wroteAny = true
	}

	pos = skipWS(data, pos)
	for pos < len(data) && data[pos] != '}' {
		if data[pos] != '"' {
			return nil, 0, fmt.Errorf("response: expected object key at offset %d", pos)
		}
		keyStart := pos
		keyEnd, err := skipString(data, pos)
		if err != nil {
			return nil, 0, err
		}
		rawKey := string(data[keyStart+1 : keyEnd-1])
		pos = skipWS(data, keyEnd)
		if pos >= len(data) || data[pos] != ':' {
			return nil, 0, fmt.Errorf("response: expected ':' after object key at offset %d", pos)
		}
		pos = skipWS(data, pos+1)

		outputKey := rawKey
		var nested *RowShape
		if shape != nil {
			if fs, ok := shape.Fields[rawKey]; ok {
				outputKey = fs.Output
				nested = fs.Nested
			}
		}

		if wroteAny {
			dst = append(dst, ',')
		}
		dst = append(dst, '"')
		dst = append(dst, outputKey...)
		dst = append(dst, `":`...)
		wroteAny = true

		dst, pos, err = transformValue(dst, data, pos, nested)
		if err != nil {
			return nil, 0, err
		}
		pos = skipWS(data, pos)
		if pos < len(data) && data[pos] == ',' {
			pos = skipWS(data, pos+1)
			continue
		}
		break
	}
	if pos >= len(data) || data[pos] != '}' {
		return nil, 0, fmt.Errorf("response: unterminated object at offset %d", pos)
	}
	dst = append(dst, '}')
	return dst, pos + 1, nil
}

func transformArray(dst []byte, data []byte, pos int, shape *RowShape) ([]byte, int, error) {
	if data[pos] != '[' {
		return nil, 0, fmt.Errorf("response: expected '[' at offset %d", pos)
	}
	pos++
	dst = append(dst, '[')
	pos = skipWS(data, pos)
	first := true
	var err error
	for pos < len(data) && data[pos] != ']' {
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst, pos, err = transformValue(dst, data, pos, shape)
		if err != nil {
			return nil, 0, err
		}
		pos = skipWS(data, pos)
		if pos < len(data) && data[pos] == ',' {
			pos = skipWS(data, pos+1)
			continue
		}
		break
	}
	if pos >= len(data) || data[pos] != ']' {
		return nil, 0, fmt.Errorf("response: unterminated array at offset %d", pos)
	}
	dst = append(dst, ']')
	return dst, pos + 1, nil
}

// skipString returns the offset immediately after the closing quote of
// the JSON string starting at pos (which must be the opening quote),
// honoring backslash escapes so an escaped quote never looks like the
// terminator.
func skipString(data []byte, pos int) (int, error) {
	if pos >= len(data) || data[pos] != '"' {
		return 0, fmt.Errorf("response: expected string at offset %d", pos)
	}
	i := pos + 1
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1, nil
		}
		i++
	}
	return 0, fmt.Errorf("response: unterminated string starting at offset %d", pos)
}

// skipLiteral returns the offset immediately after a bare JSON literal
// (number, true, false, null) starting at pos.
func skipLiteral(data []byte, pos int) int {
	i := pos
	for i < len(data) {
		switch data[i] {
		case ',', '}', ']', ' ', '\t', '\n', '\r':
			return i
		}
		i++
	}
	return i
}
