package fs

import (
	"context"
	"errors"
	"io/fs"

	"github.com/koustreak/blobidx/internal/errs"
)

// mapError translates an os / io/fs error into a *errs.Error.
// It mirrors the mapError pattern used by the other backends.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	case errors.Is(err, fs.ErrNotExist):
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case errors.Is(err, fs.ErrPermission):
		return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
	}

	return errs.Wrap(errs.ErrKindIOFailed, msg, err)
}
