package procurement

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
	CreateRequest(ctx context.Context, requesterID int64, dto CreateRequestDTO) (*Request, error)
	GetRequest(id int64) (*Request, error)
	ListRequests(filter RequestFilter) ([]*Request, error)
	AMApproveRequest(ctx context.Context, id int64) (*Request, error)
	AMRejectRequest(ctx context.Context, id int64, dto RejectDTO) (*Request, error)
	IssueRequest(ctx context.Context, id int64) (*Request, error)
	ForwardRequest(ctx context.Context, id int64) (*Request, error)
	ConvertRequest(ctx context.Context, requestID int64, dto CreateOrderDTO) (*Order, error)

	CreateOrder(ctx context.Context, dto CreateOrderDTO) (*Order, error)
	GetOrder(id int64) (*Order, error)
	ListOrders(filter OrderFilter) ([]*Order, error)
	ApproveOrder(ctx context.Context, id int64) (*Order, error)
	RejectOrder(ctx context.Context, id int64, dto RejectDTO) (*Order, error)
	ReceiveOrder(ctx context.Context, id int64, dto ReceiveDTO) (*Order, error)
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

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "no employee record linked to this account")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), *user.EmployeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := h.Service.GetRequest(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := RequestFilter{
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
	}
	if requester, err := strconv.ParseInt(r.URL.Query().Get("requester_id"), 10, 64); err == nil {
		filter.RequesterID = requester
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	requests, err := h.Service.ListRequests(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) AMApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, h.Service.AMApproveRequest)
}

func (h *Handler) AMRejectRequest(w http.ResponseWriter, r *http.Request) {
	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.requestAction(w, r, func(ctx context.Context, id int64) (*Request, error) {
		return h.Service.AMRejectRequest(ctx, id, dto)
	})
}

func (h *Handler) IssueRequest(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, h.Service.IssueRequest)
}

func (h *Handler) ForwardRequest(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, h.Service.ForwardRequest)
}

func (h *Handler) ConvertRequest(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var dto CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.Service.ConvertRequest(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.Service.GetOrder(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := OrderFilter{Status: r.URL.Query().Get("status")}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	orders, err := h.Service.ListOrders(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, h.Service.ApproveOrder)
}

func (h *Handler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.orderAction(w, r, func(ctx context.Context, id int64) (*Order, error) {
		return h.Service.RejectOrder(ctx, id, dto)
	})
}

func (h *Handler) ReceiveOrder(w http.ResponseWriter, r *http.Request) {
	var dto ReceiveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.orderAction(w, r, func(ctx context.Context, id int64) (*Order, error) {
		return h.Service.ReceiveOrder(ctx, id, dto)
	})
}

func (h *Handler) requestAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (*Request, error)) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := fn(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) orderAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (*Order, error)) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := fn(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
