package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/sirupsen/logrus"
)

// RecordsHandler serves stateless, query-driven lists.
type RecordsHandler struct {
	src    records.Source
	logger logrus.FieldLogger
}

func NewRecordsHandler(src records.Source, logger logrus.FieldLogger) *RecordsHandler {
	return &RecordsHandler{src: src, logger: logger}
}

// listPage is the JSON body of a list endpoint.
type listPage struct {
	table.Result[catalog.Row]
	Columns []catalog.Column `json:"columns"`
}

func (h *RecordsHandler) Apartments(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, catalog.Apartments)
}

func (h *RecordsHandler) Clients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, catalog.Clients)
}

// list reads q, column, sort, order and page from the query string.
func (h *RecordsHandler) list(w http.ResponseWriter, r *http.Request, entity catalog.Entity) {
	spec := catalog.For(entity)
	qs := r.URL.Query()
	q := table.Query{
		SearchTerm:   qs.Get("q"),
		SearchColumn: qs.Get("column"),
		SortKey:      qs.Get("sort"),
		SortOrder:    table.ParseOrder(qs.Get("order")),
	}
	if q.SearchColumn == "" {
		q.SearchColumn = table.SearchAll
	}
	if q.SearchColumn != table.SearchAll && !spec.Has(q.SearchColumn) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_column", map[string]string{"column": q.SearchColumn})
		return
	}
	if q.SortKey == "" {
		q.SortKey = spec.Identity().Key
	}
	q.Page, _ = strconv.Atoi(qs.Get("page"))

	rows, err := records.Rows(r.Context(), h.src, entity)
	if err != nil {
		internalError(w, r, h.logger, "handlers", "RecordsHandler.list", "load_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listPage{Result: table.Paginate(rows, spec, q), Columns: spec.Columns})
}

// Client returns one client by id.
func (h *RecordsHandler) Client(w http.ResponseWriter, r *http.Request) {
	c, err := h.src.Client(r.Context(), r.PathValue("id"))
	if errors.Is(err, records.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		internalError(w, r, h.logger, "handlers", "RecordsHandler.Client", "load_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
