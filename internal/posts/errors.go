package posts

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodePostNotFound = "POST_NOT_FOUND"
	textCodeStoreFailed  = "POST_STORE_FAILED"
)

// IsNotFound reports whether err is the error returned for a missing or
// unreadable post.
func IsNotFound(err error) bool {
	return goerrors.IsNotFound(err)
}

func notFound(slug string, cause error) error {
	var err *goerrors.Error
	if cause == nil {
		err = goerrors.New("post not found", goerrors.CategoryNotFound)
	} else {
		err = goerrors.Wrap(cause, goerrors.CategoryNotFound, "post not found")
	}
	return err.WithTextCode(textCodePostNotFound).
		WithMetadata(map[string]any{"slug": slug})
}

func storeFailure(cause error, msg string) error {
	return goerrors.Wrap(cause, goerrors.CategoryInternal, msg).
		WithTextCode(textCodeStoreFailed)
}
