package cli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/klaviyofeed/pkg/cli"
)

func newKlaviyoServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var (
		mu    sync.Mutex
		paths []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"list_id":"L1","list_name":"Newsletter"}]`))
			return
		}
		_, _ = w.Write([]byte("1"))
	}))
	t.Cleanup(server.Close)

	return server, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), paths...)
	}
}

func TestForwardCommand(t *testing.T) {
	server, calls := newKlaviyoServer(t)

	err := cli.Run(context.Background(), []string{
		"klaviyofeed", "--log-format", "json",
		"forward",
		"--email", "a@b.com",
		"--first-name", "Ada",
		"--list", "LsT123",
		"--form-title", "Newsletter",
		"--klaviyo-base-url", server.URL,
		"--klaviyo-public-key", "pub",
		"--klaviyo-private-key", "priv",
	})
	gt.NoError(t, err)
	gt.Equal(t, []string{"/api/track", "/api/v2/list/LsT123/subscribe"}, calls())
}

func TestForwardCommandLegacyAPI(t *testing.T) {
	server, calls := newKlaviyoServer(t)

	err := cli.Run(context.Background(), []string{
		"klaviyofeed", "--log-format", "json",
		"forward",
		"--email", "a@b.com",
		"--list", "LsT123",
		"--klaviyo-api-version", "v1",
		"--klaviyo-base-url", server.URL,
		"--klaviyo-private-key", "priv",
	})
	gt.NoError(t, err)
	gt.Equal(t, []string{"/api/v1/list/LsT123/members"}, calls())
}

func TestForwardCommandInvalidVersion(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"klaviyofeed", "--log-format", "json",
		"forward",
		"--email", "a@b.com",
		"--klaviyo-api-version", "v9",
	})
	gt.Error(t, err)
}

func TestListsCommand(t *testing.T) {
	server, calls := newKlaviyoServer(t)

	err := cli.Run(context.Background(), []string{
		"klaviyofeed", "--log-format", "json",
		"lists",
		"--klaviyo-base-url", server.URL,
		"--klaviyo-private-key", "priv",
	})
	gt.NoError(t, err)
	gt.Equal(t, []string{"/api/v2/lists"}, calls())
}

func TestListsCommandWithoutKey(t *testing.T) {
	server, calls := newKlaviyoServer(t)

	err := cli.Run(context.Background(), []string{
		"klaviyofeed", "--log-format", "json",
		"lists",
		"--klaviyo-base-url", server.URL,
	})
	gt.NoError(t, err)
	gt.Equal(t, 0, len(calls()))
}

func writeFeedsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestFeedsImportCommand(t *testing.T) {
	valid := writeFeedsFile(t, `feeds:
  - id: newsletter
    list_id: LsT123
    field_map:
      email: "1"
`)
	invalid := writeFeedsFile(t, `feeds:
  - id: newsletter
    field_map:
      email: "1"
`)

	testCases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"Dry run stores valid feeds", []string{"--feeds", valid, "--dry-run"}, false},
		{"Invalid feeds file", []string{"--feeds", invalid, "--dry-run"}, true},
		{"Missing feeds file", []string{"--feeds", filepath.Join(t.TempDir(), "none.yaml"), "--dry-run"}, true},
		{"Firestore required without dry run", []string{"--feeds", valid}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("KLAVIYOFEED_FIRESTORE_PROJECT", "")
			args := append([]string{"klaviyofeed", "--log-format", "json", "feeds", "import"}, tc.args...)
			err := cli.Run(context.Background(), args)
			if tc.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}
