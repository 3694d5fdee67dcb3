package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// maxBodyBytes caps JSON filter bodies.
const maxBodyBytes = 64 << 10

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"endpoints": len(s.service.ListEndpoints()),
	})
}

// handleListEndpoints returns every endpoint with the filter keys it accepts.
func (s *Server) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListEndpoints())
}

// handleSearch runs an endpoint with filters from the query string.
// Only the first value of a repeated key is used.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.search(w, r, queryValues(r.URL.Query()))
}

// handleSearchJSON runs an endpoint with filters from a JSON object body.
// Numbers keep their literal text until the filter builder parses them.
func (s *Server) handleSearchJSON(w http.ResponseWriter, r *http.Request) {
	values, err := decodeFilters(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid filter body",
			Action: "Send a JSON object of filter keys to values",
			Code:   "REQ400",
		})
		return
	}
	s.search(w, r, values)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, values map[string]any) {
	key := chi.URLParam(r, "endpoint")

	rows, err := s.service.Search(r.Context(), key, values)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// queryValues flattens a query string into a filter map.
func queryValues(q url.Values) map[string]any {
	values := make(map[string]any, len(q))
	for k, v := range q {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values
}

func decodeFilters(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		if err == io.EOF {
			return map[string]any{}, nil
		}
		return nil, errors.Wrap(err, "decode filters")
	}
	return values, nil
}
