package dryrun

import (
	"context"

	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	"go.uber.org/zap"
)

var mutatingMethods = map[string]struct{}{
	"create": {},
	"write":  {},
	"unlink": {},
	"set":    {},
}

type Operation struct {
	Model  string
	Method string
	Args   []any
	Kwargs map[string]any
	// PlannedID is the synthetic id handed back for create calls.
	PlannedID int64
}

// Caller forwards reads to the wrapped caller and records writes instead of
// issuing them. Planned creates get negative ids so they can never collide
// with real records.
type Caller struct {
	next    ports.RemoteCaller
	logger  *zap.Logger
	planned []Operation
	lastID  int64
}

var _ ports.RemoteCaller = (*Caller)(nil)

func New(next ports.RemoteCaller, logger *zap.Logger) *Caller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Caller{next: next, logger: logger}
}

func (c *Caller) Execute(ctx context.Context, model string, method string, args []any, kwargs map[string]any) (any, error) {
	if _, mutating := mutatingMethods[method]; !mutating {
		return c.next.Execute(ctx, model, method, args, kwargs)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	op := Operation{Model: model, Method: method, Args: args, Kwargs: kwargs}
	var result any = true
	if method == "create" {
		c.lastID--
		op.PlannedID = c.lastID
		result = c.lastID
	}
	c.planned = append(c.planned, op)

	c.logger.Debug("planned remote call",
		zap.String("model", model),
		zap.String("method", method),
		zap.Int64("planned_id", op.PlannedID),
	)

	return result, nil
}

func (c *Caller) Planned() []Operation {
	return append([]Operation(nil), c.planned...)
}
