package xmlrpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/rpc"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
	"github.com/bnema/odoo-worksheet-cli/internal/ports"
	kolo "github.com/kolo/xmlrpc"
	"go.uber.org/zap"
)

const (
	commonPath     = "/xmlrpc/2/common"
	objectPath     = "/xmlrpc/2/object"
	defaultTimeout = 30 * time.Second
)

type Endpoint struct {
	URL      string
	Database string
	Login    string
	Secret   string
	Timeout  time.Duration
}

// RemoteError is a fault raised by the ERP for one object call.
type RemoteError struct {
	Model   string
	Method  string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s.%s: remote fault %d: %s", e.Model, e.Method, e.Code, strings.TrimSpace(e.Message))
}

type Option func(*options)

type options struct {
	transport http.RoundTripper
	logger    *zap.Logger
}

func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type Client struct {
	endpoint Endpoint
	uid      int64
	common   *kolo.Client
	object   *kolo.Client
	logger   *zap.Logger
}

var _ ports.RemoteCaller = (*Client)(nil)

// Dial performs the authentication handshake. A single attempt is made.
func Dial(ctx context.Context, endpoint Endpoint, opts ...Option) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transport == nil {
		cfg.transport = newTransport(endpoint.Timeout)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(endpoint.URL), "/")
	if baseURL == "" {
		return nil, errors.New("endpoint url is empty")
	}

	common, err := kolo.NewClient(baseURL+commonPath, cfg.transport)
	if err != nil {
		return nil, fmt.Errorf("create common client: %w", err)
	}

	client := &Client{endpoint: endpoint, common: common, logger: cfg.logger}

	uid, err := client.authenticate()
	if err != nil {
		_ = common.Close()
		return nil, err
	}

	object, err := kolo.NewClient(baseURL+objectPath, cfg.transport)
	if err != nil {
		_ = common.Close()
		return nil, fmt.Errorf("create object client: %w", err)
	}

	client.uid = uid
	client.object = object
	client.logger.Debug("authenticated",
		zap.String("url", baseURL),
		zap.String("db", endpoint.Database),
		zap.String("login", endpoint.Login),
		zap.Int64("uid", uid),
	)

	return client, nil
}

func (c *Client) UID() int64 {
	return c.uid
}

func (c *Client) authenticate() (int64, error) {
	var reply any
	params := []any{c.endpoint.Database, c.endpoint.Login, c.endpoint.Secret, map[string]any{}}
	if err := c.common.Call("authenticate", params, &reply); err != nil {
		if _, message, ok := asFault(err); ok {
			return 0, fmt.Errorf("%w: %s", domain.ErrAuthenticationFailed, message)
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, err)
	}

	uid, ok := reply.(int64)
	if !ok || uid <= 0 {
		return 0, fmt.Errorf("%w: no user id returned for %q", domain.ErrAuthenticationFailed, c.endpoint.Login)
	}

	return uid, nil
}

func (c *Client) Execute(ctx context.Context, model string, method string, args []any, kwargs map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	started := time.Now()
	params := []any{c.endpoint.Database, c.uid, c.endpoint.Secret, model, method, args, kwargs}

	var reply any
	err := c.object.Call("execute_kw", params, &reply)
	c.logger.Debug("remote call",
		zap.String("model", model),
		zap.String("method", method),
		zap.Duration("duration", time.Since(started)),
		zap.Bool("ok", err == nil),
	)
	if err != nil {
		if code, message, ok := asFault(err); ok {
			return nil, &RemoteError{Model: model, Method: method, Code: code, Message: message}
		}
		return nil, fmt.Errorf("call %s.%s: %w", model, method, err)
	}

	return reply, nil
}

// ServerVersion asks the common endpoint for the server release string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var reply map[string]any
	if err := c.common.Call("version", nil, &reply); err != nil {
		return "", fmt.Errorf("query server version: %w", err)
	}

	version, _ := reply["server_version"].(string)
	if version == "" {
		return "", errors.New("query server version: server_version missing from response")
	}

	return version, nil
}

func (c *Client) Close() error {
	var errs []error
	if c.object != nil {
		errs = append(errs, c.object.Close())
	}
	if c.common != nil {
		errs = append(errs, c.common.Close())
	}

	return errors.Join(errs...)
}

// asFault extracts the fault code and message from a call error. The codec
// reports faults through net/rpc, which flattens them to their text form.
func asFault(err error) (int, string, bool) {
	var fault kolo.FaultError
	if errors.As(err, &fault) {
		return fault.Code, strings.TrimSpace(fault.String), true
	}

	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		return 0, "", false
	}

	rest, found := strings.CutPrefix(string(serverErr), "Fault(")
	if !found {
		return 0, "", false
	}
	rawCode, message, found := strings.Cut(rest, "): ")
	if !found {
		return 0, "", false
	}
	code, convErr := strconv.Atoi(rawCode)
	if convErr != nil {
		return 0, "", false
	}

	return code, strings.TrimSpace(message), true
}

func newTransport(timeout time.Duration) *http.Transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout

	return transport
}
