package response

import "encoding/json"

// ExtractFields decodes only the named top-level keys of row's JSON
// object, for the off-hot-path cases that need actual values rather
// than raw bytes: the executor's next-page cursor computation (one
// decode per page) and the federation Local/PeerDatabase strategies,
// which decode every fetched row to match it back to its
// representation. Keys absent from row are simply absent from the
// result map.
func ExtractFields(row []byte, keys []string) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(row, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
