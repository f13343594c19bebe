package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gbdata/roadsync/internal/feed"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListFeeds(w http.ResponseWriter, r *http.Request) {
	type feedInfo struct {
		Name string   `json:"name"`
		Key  []string `json:"key"`
	}
	var out []feedInfo
	for _, d := range s.reg.All() {
		out = append(out, feedInfo{Name: d.Name, Key: d.Key})
	}
	writeJSON(w, http.StatusOK, map[string]any{"feeds": out})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")
	q := r.URL.Query()

	page, err := intParam(q, "page", 1)
	if err != nil {
		writeError(w, err)
		return
	}
	pageSize, err := intParam(q, "page_size", 0)
	if err != nil {
		writeError(w, err)
		return
	}

	preds, err := parsePredicates(q)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.store.Query(r.Context(), feedID, page, pageSize, preds)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feed":  feedID,
		"page":  page,
		"total": result.Total,
		"count": result.Count,
		"items": result.Items,
	})
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")

	// Request params other than pagination controls pass through to the
	// provider (laeId, routeId, pageNo, numOfRows).
	params := url.Values{}
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	outcomes, err := s.collector.Run(r.Context(), feed.CollectOpts{
		Feeds:  []string{feedID},
		Params: params,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	outcome := outcomes[0]
	if outcome.Err != nil {
		writeError(w, outcome.Err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feed":     feedID,
		"inserted": outcome.Counts.Inserted,
		"updated":  outcome.Counts.Updated,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")

	deleted, err := s.store.Clear(r.Context(), feedID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"feed": feedID, "deleted": deleted})
}

// parsePredicates builds filters from query parameters of the form
// eq.<field>=v, like.<field>=v, min.<field>=n, max.<field>=n. A min and max
// on the same field merge into one range predicate.
func parsePredicates(q url.Values) ([]feed.Predicate, error) {
	var preds []feed.Predicate
	ranges := map[string]*feed.Predicate{}

	rangeBound := func(field, raw string, upper bool) error {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return feed.InvalidArgumentf("server: range bound for %q must be an integer", field)
		}
		p, ok := ranges[field]
		if !ok {
			p = &feed.Predicate{Field: field, Op: feed.OpRange}
			ranges[field] = p
		}
		if upper {
			p.Max = &n
		} else {
			p.Min = &n
		}
		return nil
	}

	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		raw := vals[0]
		switch {
		case strings.HasPrefix(key, "eq."):
			preds = append(preds, feed.Predicate{Field: key[3:], Op: feed.OpEq, Value: raw})
		case strings.HasPrefix(key, "like."):
			preds = append(preds, feed.Predicate{Field: key[5:], Op: feed.OpContains, Value: raw})
		case strings.HasPrefix(key, "min."):
			if err := rangeBound(key[4:], raw, false); err != nil {
				return nil, err
			}
		case strings.HasPrefix(key, "max."):
			if err := rangeBound(key[4:], raw, true); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range ranges {
		preds = append(preds, *p)
	}
	return preds, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, feed.InvalidArgumentf("server: %q must be an integer", name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

// writeError maps the feed error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, feed.ErrUnknownFeed):
		status = http.StatusNotFound
	case errors.Is(err, feed.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, feed.ErrTransport), errors.Is(err, feed.ErrRemoteAPI), errors.Is(err, feed.ErrMalformedResponse):
		status = http.StatusBadGateway
	}

	body := map[string]string{"error": err.Error()}
	var apiErr *feed.RemoteAPIError
	if errors.As(err, &apiErr) {
		body["result_code"] = apiErr.Code
		body["result_message"] = apiErr.Message
	}

	writeJSON(w, status, body)
}
