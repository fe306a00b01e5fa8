package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
	"github.com/secmon-lab/klaviyofeed/pkg/utils/async"
)

type handler struct {
	useCases    *UseCases
	credentials usecase.Credentials
}

type forwardRequest struct {
	Record      model.SubmissionRecord `json:"record"`
	Destination struct {
		ListID types.ListID `json:"list_id"`
	} `json:"destination"`
	Form      model.FormContext `json:"form"`
	EventName string            `json:"event_name,omitempty"`
}

type resultsResponse struct {
	Results model.ForwardResults `json:"results"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(model.ErrTagValidation))
	}
	return nil
}

// handleForward forwards one resolved submission using the server keys
func (h *handler) handleForward(w http.ResponseWriter, r *http.Request) {
	var req forwardRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	results := h.useCases.Forwarder.Forward(r.Context(), &usecase.ForwardRequest{
		Record: req.Record,
		Destination: model.DestinationConfig{
			PublicAPIKey:  h.credentials.PublicAPIKey,
			PrivateAPIKey: h.credentials.PrivateAPIKey,
			ListID:        req.Destination.ListID,
		},
		Form:      req.Form,
		EventName: req.EventName,
	})

	writeJSON(w, r, http.StatusOK, resultsResponse{Results: results})
}

// handleSubmission runs a raw submission through its feed
func (h *handler) handleSubmission(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := decodeBody(w, r, &sub); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	sub.FeedID = types.FeedID(chi.URLParam(r, "feedID"))

	if isAsync, _ := strconv.ParseBool(r.URL.Query().Get("async")); isAsync {
		async.Dispatch(r.Context(), func(ctx context.Context) error {
			results, err := h.useCases.Feeds.Process(ctx, &sub)
			if err != nil {
				return err
			}
			ctxlog.From(ctx).Debug("Async submission processed",
				"feed_id", sub.FeedID,
				"failed", results.HasFailure(),
			)
			return nil
		})
		writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
		return
	}

	results, err := h.useCases.Feeds.Process(r.Context(), &sub)
	switch {
	case errors.Is(err, model.ErrFeedNotFound):
		writeError(w, r, err, http.StatusNotFound)
	case errors.Is(err, model.ErrFeedDisabled):
		writeError(w, r, err, http.StatusConflict)
	case err != nil:
		ctxlog.From(r.Context()).Error("Failed to process submission", "error", err)
		writeError(w, r, err, http.StatusInternalServerError)
	default:
		writeJSON(w, r, http.StatusOK, resultsResponse{Results: results})
	}
}

func (h *handler) handleListFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.useCases.Feeds.ListFeeds(r.Context())
	if err != nil {
		ctxlog.From(r.Context()).Error("Failed to list feeds", "error", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	if feeds == nil {
		feeds = []*model.Feed{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"feeds": feeds})
}

// handlePutFeed creates or replaces the feed named in the path
func (h *handler) handlePutFeed(w http.ResponseWriter, r *http.Request) {
	var feed model.Feed
	if err := decodeBody(w, r, &feed); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	feedID := types.FeedID(chi.URLParam(r, "feedID"))
	if feed.ID != "" && feed.ID != feedID {
		writeError(w, r, goerr.New("feed ID in body does not match path",
			goerr.V("path_id", feedID),
			goerr.V("body_id", feed.ID)), http.StatusBadRequest)
		return
	}
	feed.ID = feedID

	if err := h.useCases.Feeds.SaveFeed(r.Context(), &feed); err != nil {
		if goerr.HasTag(err, model.ErrTagValidation) {
			writeError(w, r, err, http.StatusBadRequest)
			return
		}
		ctxlog.From(r.Context()).Error("Failed to save feed", "error", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"feed": feed})
}

func (h *handler) handleDeleteFeed(w http.ResponseWriter, r *http.Request) {
	err := h.useCases.Feeds.DeleteFeed(r.Context(), types.FeedID(chi.URLParam(r, "feedID")))
	switch {
	case errors.Is(err, model.ErrFeedNotFound):
		writeError(w, r, err, http.StatusNotFound)
	case err != nil:
		ctxlog.From(r.Context()).Error("Failed to delete feed", "error", err)
		writeError(w, r, err, http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleLists returns list choices for the configured private key
func (h *handler) handleLists(w http.ResponseWriter, r *http.Request) {
	if h.useCases.Lists == nil {
		writeError(w, r, goerr.New("list directory not configured"), http.StatusServiceUnavailable)
		return
	}

	lists, err := h.useCases.Lists.FetchLists(r.Context(), h.credentials.PrivateAPIKey)
	if err != nil {
		ctxlog.From(r.Context()).Warn("Failed to fetch lists", "error", err)
		writeError(w, r, err, http.StatusBadGateway)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"lists": lists})
}
