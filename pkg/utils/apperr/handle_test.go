package apperr_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/utils/apperr"
)

func TestHandle(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		level string
	}{
		{"Plain error", goerr.New("storage offline"), "ERROR"},
		{"Validation error", goerr.New("bad feed", goerr.T(model.ErrTagValidation)), "WARN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			ctx := ctxlog.With(context.Background(), logger)

			apperr.Handle(ctx, tc.err)

			var entry map[string]any
			gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
			gt.Equal(t, tc.level, entry["level"])
			gt.Equal(t, "application error", entry["msg"])
		})
	}
}

func TestHandleNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	apperr.Handle(ctxlog.With(context.Background(), logger), nil)
	gt.Equal(t, 0, buf.Len())
}
