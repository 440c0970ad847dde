package safe

import (
	"context"
	"io"

	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// Close closes closer and logs any error. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "error", err)
	}
}

// Write writes data to w and logs any error. Nil writers are ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("failed to write", "error", err)
	}
}
