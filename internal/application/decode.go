package application

import "fmt"

func condition(field string, operator string, value any) []any {
	return []any{field, operator, value}
}

func decodeIDs(reply any) ([]int64, error) {
	list, ok := reply.([]any)
	if !ok {
		if reply == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("expected a list of ids, got %T", reply)
	}

	ids := make([]int64, 0, len(list))
	for _, item := range list {
		id, err := toInt64(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func decodeRows(reply any) ([]map[string]any, error) {
	list, ok := reply.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of records, got %T", reply)
	}

	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a record, got %T", item)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// decodeMany2One reads a relational value, which the ERP sends as
// [id, display_name] or false.
func decodeMany2One(value any) (int64, bool) {
	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			return 0, false
		}
		id, err := toInt64(v[0])
		return id, err == nil && id > 0
	default:
		id, err := toInt64(v)
		return id, err == nil && id > 0
	}
}

func stringValue(row map[string]any, key string) string {
	value, _ := row[key].(string)
	return value
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
}
