package plane

import "github.com/fraiseql/fraiseql/response"

// RenderList renders a list-query result set as the JSON plane's
// response body. The JSON plane is the Response Builder's native
// output shape (§4.I: "JSON plane (primary)... database view
// encapsulates composition"), so this is a thin pass-through to
// response.Builder.BuildList rather than a second transform.
func RenderList(field string, rows [][]byte, shape *response.RowShape) ([]byte, error) {
	b := response.New(field, rows)
	return b.BuildList(field, rows, shape)
}

// RenderSingle renders a single-row query result as the JSON plane's
// response body. A nil row renders the framed null response (§4.E).
func RenderSingle(field string, row []byte, shape *response.RowShape) ([]byte, error) {
	var rows [][]byte
	if row != nil {
		rows = [][]byte{row}
	}
	b := response.New(field, rows)
	return b.BuildSingle(field, row, shape)
}
