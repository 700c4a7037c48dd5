package timezones

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-forms/pkg/control"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler answers zone searches with {"data": [{"value", "label"}]}.
type Handler struct {
	names        []string
	searchParam  string
	limitParam   string
	defaultLimit int
	maxLimit     int
	empty        EmptyQuery
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithZones replaces the embedded zone list.
func WithZones(names []string) HandlerOption {
	return func(h *Handler) {
		h.names = append([]string(nil), names...)
	}
}

// WithParams renames the query and limit parameters.
func WithParams(search, limit string) HandlerOption {
	return func(h *Handler) {
		if search != "" {
			h.searchParam = search
		}
		if limit != "" {
			h.limitParam = limit
		}
	}
}

// WithLimits sets the default and maximum result counts.
func WithLimits(limit, ceiling int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.defaultLimit = limit
		}
		if ceiling > 0 {
			h.maxLimit = ceiling
		}
	}
}

// WithEmptyQuery sets what a blank query returns.
func WithEmptyQuery(mode EmptyQuery) HandlerOption {
	return func(h *Handler) {
		h.empty = mode
	}
}

// NewHandler builds a handler over the embedded zones unless WithZones is
// given.
func NewHandler(opts ...HandlerOption) (*Handler, error) {
	h := &Handler{
		searchParam:  "q",
		limitParam:   "limit",
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		empty:        EmptyQueryNone,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.names == nil {
		names, err := Zones()
		if err != nil {
			return nil, err
		}
		h.names = names
	}
	return h, nil
}

// Routes mounts the search on GET and HEAD at the router root.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeHTTP)
	r.Head("/", h.ServeHTTP)
	return r
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := h.limit(query.Get(h.limitParam))
	items := Items(Search(h.names, query.Get(h.searchParam), limit, h.empty))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(struct {
		Data []control.Item `json:"data"`
	}{Data: items})
}

func (h *Handler) limit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit == 0 {
		limit = h.defaultLimit
	}
	if limit < 0 {
		return 0
	}
	return min(limit, h.maxLimit)
}
