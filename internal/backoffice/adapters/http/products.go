package http

import (
	"net/http"

	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   domain.ProductStatus(q.Get("status")),
		Page:     parsePage(r),
	}

	result, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, result, filter.Page)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in app.ProductInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in app.ProductInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Product deleted successfully")
}
