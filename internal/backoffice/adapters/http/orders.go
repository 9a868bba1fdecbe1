package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

const idempotencyHeader = "Idempotency-Key"

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.OrderFilter{
		Search:        q.Get("search"),
		Status:        domain.OrderStatus(q.Get("status")),
		PaymentStatus: domain.PaymentStatus(q.Get("paymentStatus")),
		CustomerID:    q.Get("customer"),
		Page:          parsePage(r),
	}

	result, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, result, filter.Page)
}

// createOrder places an order. With an Idempotency-Key header, a repeated request
// receives the stored response of the first successful placement.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idemKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))

	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			writeError(w, err)
			return
		}
		if stored != nil {
			for key, values := range restoreHeaders() {
				for _, value := range values {
					w.Header().Add(key, value)
				}
			}
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var in app.PlaceOrderInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.service.PlaceOrder(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(dataResponse{Success: true, Data: view}); err != nil {
		writeError(w, err)
		return
	}
	body := buf.Bytes()

	if idemKey != "" {
		stored := ports.StoredResponse{StatusCode: http.StatusCreated, Body: body, OrderID: view.ID}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			h.logger.WarnContext(ctx, "order placed but response was not stored for replay",
				"order_id", view.ID,
				"error", err,
			)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var in app.OrderUpdateInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.service.UpdateOrder(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.DeleteOrder(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Order deleted successfully")
}

// restoreHeaders are the headers sent with a replayed response.
func restoreHeaders() http.Header {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Idempotent-Replayed", "true")
	return header
}
