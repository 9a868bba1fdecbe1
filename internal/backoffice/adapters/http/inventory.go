package http

import (
	"net/http"
	"strconv"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

func (h *Handler) inventorySnapshot(w http.ResponseWriter, r *http.Request) {
	threshold := int64(-1)
	if n, err := strconv.ParseInt(r.URL.Query().Get("lowStock"), 10, 64); err == nil && n >= 0 {
		threshold = n
	}

	snapshot, err := h.service.InventorySnapshot(r.Context(), threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, snapshot)
}

type stockRequest struct {
	Stock     *int64                `json:"stock"`
	Operation domain.StockOperation `json:"operation"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Stock == nil {
		writeMessage(w, http.StatusBadRequest, false, "Stock quantity is required")
		return
	}

	product, err := h.service.AdjustStock(r.Context(), r.PathValue("id"), req.Operation, *req.Stock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}
