package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/share"
	"github.com/tastingclub/tastings/internal/summary"
	"github.com/tastingclub/tastings/internal/tasting"
)

type entry struct {
	Index int `json:"index"`
	tasting.Record
}

type listResponse struct {
	Revision string        `json:"revision"`
	Columns  []string      `json:"columns"`
	Tastings []entry       `json:"tastings"`
	Stats    summary.Stats `json:"stats"`
}

type entryResponse struct {
	Index    int            `json:"index"`
	Revision string         `json:"revision,omitempty"`
	Tasting  tasting.Record `json:"tasting"`
}

// updateRequest is a tasting body plus an optional revision field. It is
// decoded in two passes because tasting.Input has its own UnmarshalJSON.
type updateRequest struct {
	Input    tasting.Input
	Revision string
}

func decodeUpdate(r *http.Request) (updateRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return updateRequest{}, err
	}
	var req updateRequest
	if err := json.Unmarshal(body, &req.Input); err != nil {
		return updateRequest{}, err
	}
	var rev struct {
		Revision string `json:"revision"`
	}
	if err := json.Unmarshal(body, &rev); err != nil {
		return updateRequest{}, err
	}
	req.Revision = rev.Revision
	return req, nil
}

type summaryResponse struct {
	ByTaster bool              `json:"byTaster"`
	Averages []summary.Average `json:"averages"`
	Stats    summary.Stats     `json:"stats"`
}

type optionsResponse struct {
	RoastLevels []tasting.RoastLevel `json:"roastLevels"`
	BrewMethods []tasting.BrewMethod `json:"brewMethods"`
	Countries   []string             `json:"countries"`
	MinScore    int                  `json:"minScore"`
	MaxScore    int                  `json:"maxScore"`
	Columns     []string             `json:"columns"`
}

func entries(t tasting.Table) []entry {
	out := make([]entry, 0, t.Len())
	for i, r := range t.Records {
		out = append(out, entry{Index: i, Record: r})
	}
	return out
}

func (s *Server) listTastings(w http.ResponseWriter, r *http.Request) {
	table, err := s.svc.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Revision: table.Revision,
		Columns:  table.Columns(),
		Tastings: entries(table),
		Stats:    summary.Overview(table),
	})
}

func (s *Server) createTasting(w http.ResponseWriter, r *http.Request) {
	var in tasting.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body: %w", err))
		return
	}

	index, rec, err := s.svc.Submit(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryResponse{Index: index, Tasting: rec})
}

func (s *Server) getTasting(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	rec, table, err := s.svc.Get(r.Context(), index)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Index: index, Revision: table.Revision, Tasting: rec})
}

func (s *Server) updateTasting(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	req, err := decodeUpdate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body: %w", err))
		return
	}

	rec, err := s.svc.Update(r.Context(), services.UpdateInput{
		Index:    index,
		Input:    req.Input,
		Revision: revisionOf(r, req.Revision),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Index: index, Tasting: rec})
}

func (s *Server) deleteTasting(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	rec, err := s.svc.Delete(r.Context(), index, revisionOf(r, r.URL.Query().Get("revision")))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Index: index, Tasting: rec})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	byTaster := r.URL.Query().Get("by") == "taster"

	table, err := s.svc.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		ByTaster: byTaster,
		Averages: summary.AverageRatingByCoffee(table, byTaster),
		Stats:    summary.Overview(table),
	})
}

func (s *Server) getOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		RoastLevels: tasting.RoastLevels,
		BrewMethods: tasting.BrewMethods,
		Countries:   tasting.Countries,
		MinScore:    tasting.MinScore,
		MaxScore:    tasting.MaxScore,
		Columns:     tasting.Header(),
	})
}

func (s *Server) sharePNG(w http.ResponseWriter, r *http.Request) {
	png, err := share.PNG(s.publicURL(r), share.DefaultPNGSize)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

// publicURL prefers the configured public URL and falls back to the host the
// request came in on.
func (s *Server) publicURL(r *http.Request) string {
	if u := strings.TrimSpace(s.cfg.PublicURL); u != "" {
		return u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

// revisionOf prefers an If-Match header over the given fallback.
func revisionOf(r *http.Request, fallback string) string {
	if v := strings.Trim(r.Header.Get("If-Match"), `" `); v != "" {
		return v
	}
	return fallback
}
