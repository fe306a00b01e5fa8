package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/klaviyofeed/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input    string
		expected logging.Format
		wantErr  bool
	}{
		{"", logging.FormatAuto, false},
		{"auto", logging.FormatAuto, false},
		{"console", logging.FormatConsole, false},
		{"JSON", logging.FormatJSON, false},
		{"xml", logging.FormatAuto, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			format, err := logging.ParseFormat(tc.input)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, tc.expected, format)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, slog.LevelDebug, logging.ParseLogLevel("debug"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel(""))
	gt.Equal(t, slog.LevelWarn, logging.ParseLogLevel("WARNING"))
	gt.Equal(t, slog.LevelError, logging.ParseLogLevel("error"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel("verbose"))
}

func TestJSONLoggerWritesErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithFormat(slog.LevelInfo, &buf, logging.FormatJSON)

	logger.Error("forward failed", "error", goerr.New("subscribe request rejected", goerr.V("status", 500)))

	var entry map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
	gt.Equal(t, "forward failed", entry["msg"])
	gt.NotEqual(t, nil, entry["error"])
	gt.S(t, buf.String()).Contains("subscribe request rejected")
}

func TestLevelFiltersEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithFormat(slog.LevelWarn, &buf, logging.FormatJSON)
	logger.Info("dropped")
	gt.Equal(t, 0, buf.Len())
}

func TestAutoFormatWritesJSONToBuffer(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(slog.LevelDebug, &buf)
	logger.Debug("hello", "key", "value")

	var entry map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
	gt.Equal(t, "value", entry["key"])
}
