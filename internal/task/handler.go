package task

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
	Create(ctx context.Context, creatorID int64, dto CreateTaskDTO) (*Task, error)
	Get(id int64) (*Task, error)
	List(filter ListFilter) ([]*Task, error)
	Accept(ctx context.Context, id int64, actor *auth.User) (*Task, error)
	Complete(ctx context.Context, id int64, actor *auth.User, dto RemarksDTO) (*Task, error)
	ApproveReview(ctx context.Context, id int64, actor *auth.User) (*Task, error)
	RejectReview(ctx context.Context, id int64, actor *auth.User, dto RemarksDTO) (*Task, error)
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

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

// ListTasks serves the kanban board: all columns come back and the client
// groups by status.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: r.URL.Query().Get("status")}
	if assigned, err := strconv.ParseInt(r.URL.Query().Get("assigned_to"), 10, 64); err == nil {
		filter.AssignedTo = assigned
	}
	if creator, err := strconv.ParseInt(r.URL.Query().Get("created_by"), 10, 64); err == nil {
		filter.CreatedBy = creator
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	tasks, err := h.Service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) AcceptTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := h.Service.Accept(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.remarksAction(w, r, h.Service.Complete)
}

func (h *Handler) ApproveTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	t, err := h.Service.ApproveReview(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) RejectTask(w http.ResponseWriter, r *http.Request) {
	h.remarksAction(w, r, h.Service.RejectReview)
}

func (h *Handler) remarksAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64, actor *auth.User, dto RemarksDTO) (*Task, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto RemarksDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := fn(r.Context(), id, user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
