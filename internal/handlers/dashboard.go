package handlers

import (
	"net/http"

	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/services"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	sales  *services.SalesService
	logger logrus.FieldLogger
}

func NewDashboardHandler(sales *services.SalesService, logger logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{sales: sales, logger: logger}
}

// Summary answers the sales progress of the inventory.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.sales.Summary(r.Context())
	if err != nil {
		internalError(w, r, h.logger, "handlers", "DashboardHandler.Summary", "load_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
