package encoder

import (
	stderrors "errors"

	"github.com/wippyai/librender/errors"
)

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}
