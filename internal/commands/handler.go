package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 30 * time.Second

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a command function with validation, a timeout, logging and
// error categorisation. It satisfies command.Commander[T].
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	now       func() time.Time
}

// NewHandler panics on a nil fn.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, then runs the wrapped function under the handler
// timeout.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	logger := logging.WithFields(h.logger.WithContext(ctx), fields)
	started := h.now()
	logger.Debug("command.execute.start")

	if err := h.exec(ctx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Error("command.execute.context_error", "error", err, "elapsed", h.now().Sub(started))
			return wrapContextError(ctxErr)
		}
		logger.Error("command.execute.failed", "error", err, "elapsed", h.now().Sub(started))
		return wrapExecuteError(err)
	}

	logger.Info("command.execute.success", "elapsed", h.now().Sub(started))
	return nil
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the execution logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation adds an operation name to every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}
