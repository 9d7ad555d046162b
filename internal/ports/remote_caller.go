package ports

import "context"

// RemoteCaller issues one object-model call against the ERP and returns the
// decoded response.
type RemoteCaller interface {
	Execute(ctx context.Context, model string, method string, args []any, kwargs map[string]any) (any, error)
}
