package cachecmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	clearResponseCacheMessageType    = "blog.responsecache.clear"
	purgeExpiredResponsesMessageType = "blog.responsecache.purge_expired"
)

// ClearResponseCacheCommand drops every cached page.
type ClearResponseCacheCommand struct {
	// Reason is recorded in the logs, e.g. "content changed".
	Reason string `json:"reason,omitempty"`
}

// Type implements command.Message.
func (ClearResponseCacheCommand) Type() string { return clearResponseCacheMessageType }

// Validate implements command.Message.
func (m ClearResponseCacheCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Reason, validation.Length(0, 200)),
	)
}

// PurgeExpiredResponsesCommand drops stale entries from stores that do not
// expire them natively.
type PurgeExpiredResponsesCommand struct{}

// Type implements command.Message.
func (PurgeExpiredResponsesCommand) Type() string { return purgeExpiredResponsesMessageType }

// Validate implements command.Message.
func (PurgeExpiredResponsesCommand) Validate() error { return nil }
