package core

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/escolar/internal/logging"
)

// beginOp tags ctx with a fresh operation id and bounds it by the query
// timeout. The returned logger carries op_id and the operation name.
func (s *Service) beginOp(ctx context.Context, op string) (context.Context, context.CancelFunc, *slog.Logger) {
	if logging.OperationID(ctx) == "" {
		ctx = logging.WithOperation(ctx)
	}

	cancel := context.CancelFunc(func() {})
	if s.queryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, cancel, logging.WithFields(ctx, "op", op)
}
