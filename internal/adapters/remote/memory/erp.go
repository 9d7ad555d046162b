// Package memory is an in-process stand-in for the Odoo object model. It
// understands the search/read/create/write calls the worksheet tooling issues
// and returns values shaped like decoded XML-RPC responses.
package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
)

var ErrUnsupportedMethod = errors.New("unsupported method")

type Record map[string]any

type Call struct {
	Model  string
	Method string
	Args   []any
	Kwargs map[string]any
}

// FaultFunc returns a non-nil error to make a call fail.
type FaultFunc func(call Call) error

type ERP struct {
	mu       sync.Mutex
	tables   map[string][]Record
	nextID   int64
	calls    []Call
	faults   []FaultFunc
	defaults map[string]any
}

var _ ports.RemoteCaller = (*ERP)(nil)

func New() *ERP {
	return &ERP{
		tables:   map[string][]Record{},
		defaults: map[string]any{},
	}
}

// Insert seeds a record and returns its id.
func (e *ERP) Insert(model string, record Record) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.insert(model, record)
}

// WithTemplate seeds an ir.model and a worksheet.template pointing at it.
func (e *ERP) WithTemplate(name string, model string) (templateID int64, modelID int64) {
	modelID = e.Insert(domain.ModelModel, Record{"model": model, "name": name})
	templateID = e.Insert(domain.TemplateModel, Record{
		"name":     name,
		"model_id": []any{modelID, name},
	})
	return templateID, modelID
}

func (e *ERP) FailWhen(fn FaultFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.faults = append(e.faults, fn)
}

func (e *ERP) Records(model string) []Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := make([]Record, 0, len(e.tables[model]))
	for _, record := range e.tables[model] {
		records = append(records, copyRecord(record))
	}

	return records
}

func (e *ERP) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Call(nil), e.calls...)
}

func (e *ERP) CallsTo(model string, method string) []Call {
	var matched []Call
	for _, call := range e.Calls() {
		if call.Model == model && call.Method == method {
			matched = append(matched, call)
		}
	}

	return matched
}

func (e *ERP) Default(model string, field string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok := e.defaults[model+"."+field]
	return value, ok
}

func (e *ERP) Execute(ctx context.Context, model string, method string, args []any, kwargs map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	call := Call{Model: model, Method: method, Args: args, Kwargs: kwargs}
	e.calls = append(e.calls, call)
	for _, fault := range e.faults {
		if err := fault(call); err != nil {
			return nil, err
		}
	}

	switch method {
	case "search":
		return e.search(model, args, kwargs)
	case "search_read":
		return e.searchRead(model, args, kwargs)
	case "read":
		return e.read(model, args)
	case "create":
		return e.create(model, args)
	case "write":
		return e.write(model, args)
	case "set":
		if model != domain.DefaultModel {
			break
		}
		return e.setDefault(args)
	}

	return nil, fmt.Errorf("%s.%s: %w", model, method, ErrUnsupportedMethod)
}

func (e *ERP) insert(model string, record Record) int64 {
	e.nextID++
	stored := copyRecord(record)
	stored["id"] = e.nextID
	e.tables[model] = append(e.tables[model], stored)
	return e.nextID
}

func (e *ERP) search(model string, args []any, kwargs map[string]any) (any, error) {
	matched, err := e.match(model, args, kwargs)
	if err != nil {
		return nil, err
	}

	ids := make([]any, 0, len(matched))
	for _, record := range matched {
		ids = append(ids, record["id"])
	}

	return ids, nil
}

func (e *ERP) searchRead(model string, args []any, kwargs map[string]any) (any, error) {
	matched, err := e.match(model, args, kwargs)
	if err != nil {
		return nil, err
	}

	fields, err := stringList(kwargs["fields"])
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}

	rows := make([]any, 0, len(matched))
	for _, record := range matched {
		rows = append(rows, project(record, fields))
	}

	return rows, nil
}

func (e *ERP) read(model string, args []any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("read: ids are required")
	}

	ids, err := idList(args[0])
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var fields []string
	if len(args) > 1 {
		fields, err = stringList(args[1])
		if err != nil {
			return nil, fmt.Errorf("read fields: %w", err)
		}
	}

	rows := make([]any, 0, len(ids))
	for _, id := range ids {
		record, ok := e.find(model, id)
		if !ok {
			continue
		}
		rows = append(rows, project(record, fields))
	}

	return rows, nil
}

func (e *ERP) create(model string, args []any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("create: values are required")
	}

	values, ok := args[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("create: values must be a mapping, got %T", args[0])
	}

	record := Record(values)
	if model == domain.FieldModel {
		if _, hasModel := record["model"]; !hasModel {
			modelID, err := toInt64(record["model_id"])
			if err != nil {
				return nil, fmt.Errorf("create field: model_id: %w", err)
			}
			owner, found := e.find(domain.ModelModel, modelID)
			if !found {
				return nil, fmt.Errorf("create field: model %d does not exist", modelID)
			}
			record = copyRecord(record)
			record["model"] = owner["model"]
		}
	}

	return e.insert(model, record), nil
}

func (e *ERP) write(model string, args []any) (any, error) {
	if len(args) < 2 {
		return nil, errors.New("write: ids and values are required")
	}

	ids, err := idList(args[0])
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	values, ok := args[1].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("write: values must be a mapping, got %T", args[1])
	}

	for _, id := range ids {
		for i, record := range e.tables[model] {
			if record["id"] != id {
				continue
			}
			for key, value := range values {
				e.tables[model][i][key] = value
			}
		}
	}

	return true, nil
}

func (e *ERP) setDefault(args []any) (any, error) {
	if len(args) < 3 {
		return nil, errors.New("set: model, field and value are required")
	}

	model, _ := args[0].(string)
	field, _ := args[1].(string)
	e.defaults[model+"."+field] = args[2]
	return true, nil
}

func (e *ERP) find(model string, id int64) (Record, bool) {
	for _, record := range e.tables[model] {
		if record["id"] == id {
			return record, true
		}
	}

	return nil, false
}

func (e *ERP) match(model string, args []any, kwargs map[string]any) ([]Record, error) {
	var conditions []any
	if len(args) > 0 && args[0] != nil {
		list, ok := args[0].([]any)
		if !ok {
			return nil, fmt.Errorf("domain must be a list, got %T", args[0])
		}
		conditions = list
	}

	var matched []Record
	for _, record := range e.tables[model] {
		ok, err := matchesAll(record, conditions)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, record)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		left, _ := toInt64(matched[i]["id"])
		right, _ := toInt64(matched[j]["id"])
		return left < right
	})

	if limit, err := toInt64(kwargs["limit"]); err == nil && limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func matchesAll(record Record, conditions []any) (bool, error) {
	for _, raw := range conditions {
		condition, ok := raw.([]any)
		if !ok || len(condition) != 3 {
			return false, fmt.Errorf("invalid domain term %v", raw)
		}

		field, _ := condition[0].(string)
		operator, _ := condition[1].(string)
		value := condition[2]
		actual := record[field]

		switch operator {
		case "=":
			if !equalValues(actual, value) {
				return false, nil
			}
		case "!=":
			if equalValues(actual, value) {
				return false, nil
			}
		case "ilike":
			haystack, _ := actual.(string)
			needle, _ := value.(string)
			if !strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported domain operator %q", operator)
		}
	}

	return true, nil
}

func equalValues(left any, right any) bool {
	leftNumber, leftErr := toInt64(left)
	rightNumber, rightErr := toInt64(right)
	if leftErr == nil && rightErr == nil {
		return leftNumber == rightNumber
	}

	return reflect.DeepEqual(left, right)
}

func project(record Record, fields []string) map[string]any {
	if len(fields) == 0 {
		return copyRecord(record)
	}

	row := map[string]any{"id": record["id"]}
	for _, field := range fields {
		value, ok := record[field]
		if !ok {
			value = false
		}
		row[field] = value
	}

	return row
}

func copyRecord(record Record) Record {
	copied := make(Record, len(record))
	for key, value := range record {
		copied[key] = value
	}

	return copied
}

func idList(raw any) ([]int64, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("ids must be a list, got %T", raw)
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

func stringList(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}

	values := make([]string, 0, len(list))
	for _, item := range list {
		value, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", item)
		}
		values = append(values, value)
	}

	return values, nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
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
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}
