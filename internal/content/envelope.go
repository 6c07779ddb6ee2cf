package content

import (
	"bytes"
	"encoding/json"
	"errors"
)

// envelope is the response shape of the content API: {"data": ...}. The
// paginated list endpoints answer {"items": [...], "total": n, ...} instead.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Items json.RawMessage `json:"items"`
}

// ListPage carries pagination totals when the backend reports them.
type ListPage[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
}

var errMissingData = errors.New(`response has no "data" field`)

func decodeOne[T any](body []byte) (T, error) {
	var out T
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return out, err
	}
	if isAbsent(env.Data) {
		return out, errMissingData
	}
	err := json.Unmarshal(env.Data, &out)
	return out, err
}

// decodeList accepts {"data": [...]}, {"data": {"items": [...]}} and
// {"items": [...]}. A null or missing list is empty, not an error.
func decodeList[T any](body []byte) ([]T, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	raw := env.Data
	if isAbsent(raw) {
		raw = env.Items
	}
	if isAbsent(raw) {
		return []T{}, nil
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var page ListPage[T]
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, err
		}
		return nonNil(page.Items), nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
