package http

import (
	"net/http"

	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.UserFilter{
		Search: q.Get("search"),
		Role:   domain.Role(q.Get("role")),
		Page:   parsePage(r),
	}

	result, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, result, filter.Page)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in app.UserInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var in app.UserInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "User deleted successfully")
}
