package leave

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/mfadhilr/office-management/internal/auth"
	"github.com/mfadhilr/office-management/internal/transport"
)

type ServiceAPI interface {
	Apply(ctx context.Context, employeeID int64, dto ApplyLeaveDTO) (*Request, error)
	Get(id int64) (*Request, error)
	List(filter ListFilter) ([]*Request, error)
	HODApprove(ctx context.Context, id int64, actor *auth.User) (*Request, error)
	HODReject(ctx context.Context, id int64, actor *auth.User, dto RejectDTO) (*Request, error)
	HRApprove(ctx context.Context, id, actorUserID int64) (*Request, error)
	HRReject(ctx context.Context, id, actorUserID int64, dto RejectDTO) (*Request, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "no employee record linked to this account")
		return
	}

	var dto ApplyLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Apply(r.Context(), *user.EmployeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// ListMyLeaves returns the calling employee's own requests.
func (h *Handler) ListMyLeaves(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "no employee record linked to this account")
		return
	}

	requests, err := h.Service.List(ListFilter{EmployeeID: *user.EmployeeID})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

// ListLeaves serves the approval queues, filtered by department and status.
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	requests, err := h.Service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) HODApprove(w http.ResponseWriter, r *http.Request) {
	h.hodAction(w, r, func(ctx context.Context, id int64, actor *auth.User) (*Request, error) {
		return h.Service.HODApprove(ctx, id, actor)
	})
}

func (h *Handler) HODReject(w http.ResponseWriter, r *http.Request) {
	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.hodAction(w, r, func(ctx context.Context, id int64, actor *auth.User) (*Request, error) {
		return h.Service.HODReject(ctx, id, actor, dto)
	})
}

func (h *Handler) HRApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Service.HRApprove(r.Context(), id, user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) HRReject(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.HRReject(r.Context(), id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) hodAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64, actor *auth.User) (*Request, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := fn(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
