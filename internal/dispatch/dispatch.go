package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mattt/stellar-mcp/internal/amount"
	"github.com/mattt/stellar-mcp/internal/toolerr"
)

// Result is the uniform envelope returned for every invocation
type Result struct {
	// Text is a JSON document
	Text    string
	IsError bool
}

// Dispatcher routes operation invocations to their handlers
type Dispatcher struct {
	network string
	ops     []Operation
	index   map[string]int
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithClock overrides the clock used for envelope timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New creates a Dispatcher for the given network with ops registered in order
func New(network string, ops []Operation, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		network: network,
		index:   make(map[string]int, len(ops)),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, op := range ops {
		if op.Name == "" {
			return nil, fmt.Errorf("operation name is required")
		}
		if op.Handler == nil {
			return nil, fmt.Errorf("operation %q has no handler", op.Name)
		}
		if _, exists := d.index[op.Name]; exists {
			return nil, fmt.Errorf("operation %q already registered", op.Name)
		}
		d.index[op.Name] = len(d.ops)
		d.ops = append(d.ops, op)
	}

	return d, nil
}

// Network returns the network identifier stamped on every envelope
func (d *Dispatcher) Network() string {
	return d.network
}

// List returns the registered operations in registration order
func (d *Dispatcher) List() []Operation {
	return slices.Clone(d.ops)
}

// Lookup returns the operation registered under name
func (d *Dispatcher) Lookup(name string) (Operation, bool) {
	i, ok := d.index[name]
	if !ok {
		return Operation{}, false
	}
	return d.ops[i], true
}

// Invoke runs the named operation and always returns an envelope.
// Handler errors and panics become error envelopes.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (result Result) {
	logger := d.logger.With("operation", name, "invocation", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("operation panicked", "panic", r)
			result = d.failure(toolerr.New(toolerr.Internal, "operation panicked: %v", r))
		}
	}()

	op, ok := d.Lookup(name)
	if !ok {
		logger.Warn("unknown operation")
		return d.failure(toolerr.New(toolerr.UnknownOperation, "unknown operation %q", name))
	}

	validated, err := validate(op, args)
	if err != nil {
		logger.Warn("invalid arguments", "error", err)
		return d.failure(err)
	}

	start := d.now()
	logger.Debug("invoking operation", "args", validated)
	payload, err := op.Handler(ctx, validated)
	if err != nil {
		logger.Warn("operation failed", "error", err, "kind", toolerr.KindOf(err))
		return d.failure(err)
	}
	logger.Debug("operation completed", "source", payload["source"], "elapsed", d.now().Sub(start))

	return d.success(payload)
}

// InvokeJSON decodes raw as a JSON object of arguments and runs the named
// operation. Empty input means no arguments.
func (d *Dispatcher) InvokeJSON(ctx context.Context, name string, raw []byte) Result {
	var args map[string]any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return d.failure(toolerr.Wrap(toolerr.MalformedArgument, err, "arguments must be a JSON object"))
		}
	}
	return d.Invoke(ctx, name, args)
}

func (d *Dispatcher) success(payload Payload) Result {
	doc := make(map[string]any, len(payload)+2)
	maps.Copy(doc, payload)
	doc["network"] = d.network
	doc["timestamp"] = d.now().UTC().Format(time.RFC3339)

	text, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return d.failure(toolerr.Wrap(toolerr.Internal, err, "error encoding result"))
	}
	return Result{Text: string(text)}
}

func (d *Dispatcher) failure(err error) Result {
	kind := toolerr.KindOf(err)
	doc := map[string]any{
		"error":     kind.Description(),
		"kind":      kind.String(),
		"details":   err.Error(),
		"fallback":  fallbackNote(kind),
		"network":   d.network,
		"timestamp": d.now().UTC().Format(time.RFC3339),
	}

	text, marshalErr := json.MarshalIndent(doc, "", "  ")
	if marshalErr != nil {
		text = []byte(fmt.Sprintf(`{"error":%q,"kind":%q}`, kind.Description(), kind.String()))
	}
	return Result{Text: string(text), IsError: true}
}

func fallbackNote(kind toolerr.Kind) string {
	switch kind {
	case toolerr.UpstreamUnavailable:
		return "every fallback tier failed, including mock data"
	case toolerr.UnknownOperation:
		return "no mock data exists for unknown operations"
	case toolerr.MalformedArgument:
		return "mock data is not substituted for invalid arguments"
	default:
		return "mock data could not be generated"
	}
}

func validate(op Operation, args map[string]any) (Args, error) {
	out := make(Args, len(args)+len(op.Params))
	for k, v := range args {
		if v != nil {
			out[k] = v
		}
	}

	for _, p := range op.Params {
		v, present := out[p.Name]
		if s, ok := v.(string); ok && s == "" {
			present = false
			delete(out, p.Name)
		}

		if !present {
			if p.Required {
				return nil, toolerr.New(toolerr.MalformedArgument, "missing required argument %q", p.Name)
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}

		normalized, err := checkType(p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = normalized
	}

	return out, nil
}

func checkType(p Param, v any) (any, error) {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, toolerr.New(toolerr.MalformedArgument, "argument %q must be a string, got %T", p.Name, v)
		}
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, s) {
			return nil, toolerr.New(toolerr.MalformedArgument, "argument %q must be one of %v, got %q", p.Name, p.Enum, s)
		}
		if p.Decimal {
			if _, err := amount.Parse(s); err != nil {
				return nil, toolerr.Wrap(toolerr.MalformedArgument, err, "argument %q must be a decimal string", p.Name)
			}
		}
		return s, nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, toolerr.New(toolerr.MalformedArgument, "argument %q must be a boolean, got %T", p.Name, v)
		}
		return b, nil

	case TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != math.Trunc(n) {
				return nil, toolerr.New(toolerr.MalformedArgument, "argument %q must be an integer, got %v", p.Name, n)
			}
			return int(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, toolerr.Wrap(toolerr.MalformedArgument, err, "argument %q must be an integer", p.Name)
			}
			return int(i), nil
		default:
			return nil, toolerr.New(toolerr.MalformedArgument, "argument %q must be an integer, got %T", p.Name, v)
		}
	}

	return v, nil
}
