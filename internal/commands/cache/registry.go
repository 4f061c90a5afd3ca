package cachecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/scheduler"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// CommandRegistry is the registration contract of go-command registries.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the response cache handlers.
type HandlerSet struct {
	Clear *ClearResponseCacheHandler
	Purge *PurgeExpiredResponsesHandler
}

// RegisterResponseCacheCommands builds the handlers and registers them with
// reg when it is not nil.
func RegisterResponseCacheCommands(reg CommandRegistry, store interfaces.ResponseStore, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if store == nil {
		return nil, ErrStoreNotConfigured
	}
	logger := commands.CommandLogger(provider, "responsecache")
	set := &HandlerSet{
		Clear: NewClearResponseCacheHandler(store, logger),
		Purge: NewPurgeExpiredResponsesHandler(store, logger),
	}
	if reg != nil {
		if err := reg.RegisterCommand(set.Clear); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Purge); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// RegisterPurgeCron schedules the purge handler with cfg.Expression.
func RegisterPurgeCron(reg scheduler.Registrar, handler *PurgeExpiredResponsesHandler, cfg command.HandlerConfig) error {
	if reg == nil {
		return errors.New("response cache cron: registrar is nil")
	}
	if handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), PurgeExpiredResponsesCommand{})
	})
}
