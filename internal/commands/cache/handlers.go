package cachecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	_ command.Commander[ClearResponseCacheCommand]    = (*ClearResponseCacheHandler)(nil)
	_ command.Commander[PurgeExpiredResponsesCommand] = (*PurgeExpiredResponsesHandler)(nil)
)

// ErrStoreNotConfigured is returned when the response cache has no store.
var ErrStoreNotConfigured = errors.New("response cache command: store not configured")

// ClearResponseCacheHandler empties the response store.
type ClearResponseCacheHandler struct {
	inner *commands.Handler[ClearResponseCacheCommand]
}

// NewClearResponseCacheHandler builds the handler around store.
func NewClearResponseCacheHandler(store interfaces.ResponseStore, logger interfaces.Logger, opts ...commands.HandlerOption[ClearResponseCacheCommand]) *ClearResponseCacheHandler {
	logger = logging.Ensure(logger)

	exec := func(ctx context.Context, msg ClearResponseCacheCommand) error {
		if store == nil {
			return ErrStoreNotConfigured
		}
		if err := store.Clear(ctx); err != nil {
			return err
		}
		logger.Info("responsecache.cleared", "reason", msg.Reason)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ClearResponseCacheCommand]{
		commands.WithLogger[ClearResponseCacheCommand](logger),
		commands.WithOperation[ClearResponseCacheCommand]("responsecache.clear"),
	}
	return &ClearResponseCacheHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ClearResponseCacheCommand].
func (h *ClearResponseCacheHandler) Execute(ctx context.Context, msg ClearResponseCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PurgeExpiredResponsesHandler sweeps stale entries. Stores with native
// expiry are left alone.
type PurgeExpiredResponsesHandler struct {
	inner *commands.Handler[PurgeExpiredResponsesCommand]
}

// NewPurgeExpiredResponsesHandler builds the handler around store.
func NewPurgeExpiredResponsesHandler(store interfaces.ResponseStore, logger interfaces.Logger, opts ...commands.HandlerOption[PurgeExpiredResponsesCommand]) *PurgeExpiredResponsesHandler {
	logger = logging.Ensure(logger)

	exec := func(ctx context.Context, _ PurgeExpiredResponsesCommand) error {
		if store == nil {
			return ErrStoreNotConfigured
		}
		expiring, ok := store.(interfaces.ExpiringStore)
		if !ok {
			logger.Debug("responsecache.purge.skipped", "reason", "store expires entries natively")
			return nil
		}
		purged, err := expiring.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		logger.Debug("responsecache.purged", "entries", purged)
		return nil
	}

	handlerOpts := []commands.HandlerOption[PurgeExpiredResponsesCommand]{
		commands.WithLogger[PurgeExpiredResponsesCommand](logger),
		commands.WithOperation[PurgeExpiredResponsesCommand]("responsecache.purge_expired"),
	}
	return &PurgeExpiredResponsesHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[PurgeExpiredResponsesCommand].
func (h *PurgeExpiredResponsesHandler) Execute(ctx context.Context, msg PurgeExpiredResponsesCommand) error {
	return h.inner.Execute(ctx, msg)
}
