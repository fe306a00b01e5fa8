package klaviyo_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
	"github.com/secmon-lab/klaviyofeed/pkg/service/klaviyo"
)

type capturedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

type capturedRequests struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (c *capturedRequests) add(req capturedRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
}

func (c *capturedRequests) All() []capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]capturedRequest(nil), c.requests...)
}

func newCaptureServer(t *testing.T, status int, respBody string) (*httptest.Server, *capturedRequests) {
	t.Helper()

	captured := &capturedRequests{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		gt.NoError(t, err)
		captured.add(capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func TestTrackV2(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, "1")
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Track(context.Background(), "pub-key", &interfaces.TrackEvent{
		Name:               model.DefaultEventName,
		CustomerProperties: map[string]string{"$email": "a@b.com"},
		Properties:         map[string]string{"Form": "Newsletter"},
	})
	gt.NoError(t, err).Required()

	gt.Equal(t, 1, len(captured.All()))
	req := captured.All()[0]
	gt.Equal(t, http.MethodPost, req.Method)
	gt.Equal(t, "/api/track", req.Path)
	gt.Equal(t, "application/json", req.ContentType)

	var body map[string]any
	gt.NoError(t, json.Unmarshal(req.Body, &body)).Required()
	gt.Equal(t, "pub-key", body["token"])
	gt.Equal(t, "GravityForm Submitted", body["event"])
	gt.Equal(t, "a@b.com", body["customer_properties"].(map[string]any)["$email"])
	gt.Equal(t, "Newsletter", body["properties"].(map[string]any)["Form"])
}

func TestTrackV1EncodesBase64Data(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, "1")
	client := klaviyo.New(
		klaviyo.WithBaseURL(server.URL),
		klaviyo.WithAPIVersion(types.APIVersionV1),
	)

	err := client.Track(context.Background(), "pub-key", &interfaces.TrackEvent{
		Name:               "Active on Site",
		CustomerProperties: map[string]string{"$email": "a@b.com"},
	})
	gt.NoError(t, err).Required()

	req := captured.All()[0]
	gt.Equal(t, "application/x-www-form-urlencoded", req.ContentType)

	form, err := url.ParseQuery(string(req.Body))
	gt.NoError(t, err).Required()
	raw, err := base64.StdEncoding.DecodeString(form.Get("data"))
	gt.NoError(t, err).Required()

	var body map[string]any
	gt.NoError(t, json.Unmarshal(raw, &body)).Required()
	gt.Equal(t, "Active on Site", body["event"])
	gt.Equal(t, "pub-key", body["token"])
}

func TestTrackRejectedEvent(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusOK, "0")
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Track(context.Background(), "pub-key", &interfaces.TrackEvent{Name: "x"})
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagAPI)).True()
}

func TestSubscribeV2SparseProfile(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Subscribe(context.Background(), "priv-key", "LsT123", &interfaces.Profile{
		Email:  "a@b.com",
		Source: "GravityForms: Newsletter",
	})
	gt.NoError(t, err).Required()

	req := captured.All()[0]
	gt.Equal(t, "/api/v2/list/LsT123/subscribe", req.Path)
	gt.Equal(t, "application/json", req.ContentType)

	var body struct {
		APIKey   string           `json:"api_key"`
		Profiles []map[string]any `json:"profiles"`
	}
	gt.NoError(t, json.Unmarshal(req.Body, &body)).Required()
	gt.Equal(t, "priv-key", body.APIKey)
	gt.Equal(t, 1, len(body.Profiles))

	profile := body.Profiles[0]
	gt.Equal(t, "a@b.com", profile["email"])
	gt.Equal(t, "email", profile["$consent"])
	gt.Equal(t, "GravityForms: Newsletter", profile["$source"])
	_, hasFirst := profile["$first_name"]
	_, hasLast := profile["$last_name"]
	gt.False(t, hasFirst)
	gt.False(t, hasLast)
}

func TestSubscribeV2WithNames(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Subscribe(context.Background(), "priv-key", "LsT123", &interfaces.Profile{
		Email:     "a@b.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	gt.NoError(t, err).Required()

	var body struct {
		Profiles []map[string]any `json:"profiles"`
	}
	gt.NoError(t, json.Unmarshal(captured.All()[0].Body, &body)).Required()
	gt.Equal(t, "Ada", body.Profiles[0]["$first_name"])
	gt.Equal(t, "Lovelace", body.Profiles[0]["$last_name"])
}

func TestSubscribeV1FormEncoded(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	client := klaviyo.New(
		klaviyo.WithBaseURL(server.URL),
		klaviyo.WithAPIVersion(types.APIVersionV1),
	)

	err := client.Subscribe(context.Background(), "priv-key", "LsT123", &interfaces.Profile{
		Email:     "a@b.com",
		FirstName: "Ada",
	})
	gt.NoError(t, err).Required()

	req := captured.All()[0]
	gt.Equal(t, "/api/v1/list/LsT123/members", req.Path)

	form, err := url.ParseQuery(string(req.Body))
	gt.NoError(t, err).Required()
	gt.Equal(t, "priv-key", form.Get("api_key"))
	gt.Equal(t, "a@b.com", form.Get("email"))
	gt.Equal(t, "false", form.Get("confirm_optin"))

	var props map[string]string
	gt.NoError(t, json.Unmarshal([]byte(form.Get("properties")), &props)).Required()
	gt.Equal(t, "Ada", props["$first_name"])
	_, hasLast := props["$last_name"]
	gt.False(t, hasLast)
}

func TestSubscribeErrorStatus(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusInternalServerError, `{"message":"internal"}`)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Subscribe(context.Background(), "priv-key", "LsT123", &interfaces.Profile{Email: "a@b.com"})
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagAPI)).True()

	values := goerr.Unwrap(err).Values()
	gt.Equal(t, 500, values["status"])
	gt.Equal(t, `{"message":"internal"}`, values["body"])
}

func TestSubscribeNonOKSuccessStatusFails(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusAccepted, ``)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Subscribe(context.Background(), "priv-key", "LsT123", &interfaces.Profile{Email: "a@b.com"})
	gt.Error(t, err)
}

func TestSubscribeEmptyListID(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	err := client.Subscribe(context.Background(), "priv-key", "", &interfaces.Profile{Email: "a@b.com"})
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagValidation)).True()
	gt.Equal(t, 0, len(captured.All()))
}

func TestCustomEndpoints(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{}`)
	client := klaviyo.New(
		klaviyo.WithBaseURL(server.URL+"/"),
		klaviyo.WithEndpoints(klaviyo.Endpoints{Subscribe: "/custom/{listId}/join"}),
	)

	err := client.Subscribe(context.Background(), "priv-key", "L1", &interfaces.Profile{Email: "a@b.com"})
	gt.NoError(t, err).Required()
	gt.Equal(t, "/custom/L1/join", captured.All()[0].Path)
}

func TestTransportTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := klaviyo.New(
		klaviyo.WithBaseURL(server.URL),
		klaviyo.WithTimeout(50*time.Millisecond),
	)

	err := client.Subscribe(context.Background(), "priv-key", "L1", &interfaces.Profile{Email: "a@b.com"})
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagTransport)).True()
}

func TestTransportErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := klaviyo.New(klaviyo.WithBaseURL(baseURL))

	_, err := client.Lists(context.Background(), "secret-private-key")
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagTransport)).True()
	gt.False(t, strings.Contains(err.Error(), "secret-private-key"))
}

func TestListsV1(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{"data":[
		{"id":"L1","name":"Newsletter","list_type":"list"},
		{"id":"S1","name":"VIP","list_type":"segment"},
		{"id":"L2","name":"Customers","list_type":"list"}
	]}`)
	client := klaviyo.New(
		klaviyo.WithBaseURL(server.URL),
		klaviyo.WithAPIVersion(types.APIVersionV1),
	)

	lists, err := client.Lists(context.Background(), "priv-key")
	gt.NoError(t, err).Required()

	gt.Equal(t, "/api/v1/lists", captured.All()[0].Path)
	gt.Equal(t, "priv-key", captured.All()[0].Query.Get("api_key"))
	gt.Equal(t, []model.ListChoice{
		{Label: "Newsletter", Value: "L1"},
		{Label: "Customers", Value: "L2"},
	}, lists)
}

func TestListsV2(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `[
		{"list_id":"L1","list_name":"Newsletter"},
		{"list_id":"L2","list_name":"Customers"}
	]`)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	lists, err := client.Lists(context.Background(), "priv-key")
	gt.NoError(t, err).Required()

	gt.Equal(t, "/api/v2/lists", captured.All()[0].Path)
	gt.Equal(t, []model.ListChoice{
		{Label: "Newsletter", Value: "L1"},
		{Label: "Customers", Value: "L2"},
	}, lists)
}

func TestListsEndpointWithQuery(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `[]`)
	client := klaviyo.New(
		klaviyo.WithBaseURL(server.URL),
		klaviyo.WithEndpoints(klaviyo.Endpoints{Lists: "/api/v2/lists?count=100"}),
	)

	lists, err := client.Lists(context.Background(), "priv-key")
	gt.NoError(t, err).Required()
	gt.Equal(t, 0, len(lists))

	req := captured.All()[0]
	gt.Equal(t, "/api/v2/lists", req.Path)
	gt.Equal(t, "100", req.Query.Get("count"))
	gt.Equal(t, "priv-key", req.Query.Get("api_key"))
}

func TestListsDecodeFailure(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"Not JSON", `<html>oops</html>`},
		{"Object without data", `{"lists":[]}`},
		{"Wrong item shape", `[1,2,3]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, _ := newCaptureServer(t, http.StatusOK, tc.body)
			client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

			_, err := client.Lists(context.Background(), "priv-key")
			gt.Error(t, err)
			gt.B(t, goerr.HasTag(err, model.ErrTagDecode)).True()
		})
	}
}

func TestListsErrorStatus(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusForbidden, `{"message":"bad key"}`)
	client := klaviyo.New(klaviyo.WithBaseURL(server.URL))

	_, err := client.Lists(context.Background(), "priv-key")
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagAPI)).True()
}
