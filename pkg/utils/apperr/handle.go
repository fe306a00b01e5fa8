package apperr

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
)

// Handle logs an error that cannot be returned to a caller. Validation
// failures are client mistakes and go out at warn level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	level := slog.LevelError
	if goerr.HasTag(err, model.ErrTagValidation) {
		level = slog.LevelWarn
	}

	ctxlog.From(ctx).Log(ctx, level, "application error", "error", err)
}
