package http

import (
	"net/http"

	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.CustomerFilter{
		Search:       q.Get("search"),
		Status:       domain.CustomerStatus(q.Get("status")),
		CustomerType: domain.CustomerType(q.Get("customerType")),
		Page:         parsePage(r),
	}

	result, err := h.service.ListCustomers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, result, filter.Page)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var in app.CustomerInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, customer)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var in app.CustomerInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Customer deleted successfully")
}

func (h *Handler) rebuildCustomerStats(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.RebuildCustomerStats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, customer)
}
