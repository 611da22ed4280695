package inventory

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/mfadhilr/office-management/internal/transport"
)

type ServiceAPI interface {
	CreateItem(dto CreateItemDTO) (*Item, error)
	GetItem(id int64) (*Item, error)
	ListItems(filter ItemFilter) ([]*Item, error)
	UpdateItem(id int64, dto UpdateItemDTO) (*Item, error)
	AssignItem(id int64, dto AssignItemDTO) (*Item, error)
	UnassignItem(id int64) (*Item, error)
	DeactivateItem(id int64) error

	ListToners() ([]*Toner, error)
	FillToner(dto TonerAdjustDTO) error
	ConsumeToner(dto TonerAdjustDTO) error
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

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto CreateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.CreateItem(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Service.GetItem(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(h.filterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

// ExportItems streams the current listing as a CSV attachment.
func (h *Handler) ExportItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(h.filterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := "inventory-" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	writer := csv.NewWriter(w)
	writer.Write([]string{"ID", "Category", "Name", "Model", "Serial Number", "Status", "Assigned To", "Quantity", "Unit", "Location"})
	for _, item := range items {
		serial, assigned, quantity := "", "", ""
		if item.SerialNumber != nil {
			serial = *item.SerialNumber
		}
		if item.AssignedTo != nil {
			assigned = strconv.FormatInt(*item.AssignedTo, 10)
		}
		if item.Quantity != nil {
			quantity = item.Quantity.String()
		}
		writer.Write([]string{
			strconv.FormatInt(item.ID, 10),
			item.Category,
			item.Name,
			item.Model,
			serial,
			item.Status,
			assigned,
			quantity,
			item.Unit,
			item.Location,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.Logger.Error("failed to write inventory csv", "error", err)
	}
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var dto UpdateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.UpdateItem(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AssignItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var dto AssignItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.AssignItem(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) UnassignItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Service.UnassignItem(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Service.DeactivateItem(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handler) ListToners(w http.ResponseWriter, r *http.Request) {
	toners, err := h.Service.ListToners()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toners)
}

func (h *Handler) FillToner(w http.ResponseWriter, r *http.Request) {
	h.tonerAction(w, r, h.Service.FillToner)
}

func (h *Handler) ConsumeToner(w http.ResponseWriter, r *http.Request) {
	h.tonerAction(w, r, h.Service.ConsumeToner)
}

func (h *Handler) tonerAction(w http.ResponseWriter, r *http.Request, fn func(dto TonerAdjustDTO) error) {
	var dto TonerAdjustDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := fn(dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) filterFromQuery(r *http.Request) ItemFilter {
	filter := ItemFilter{
		Category:   r.URL.Query().Get("category"),
		Status:     r.URL.Query().Get("status"),
		ActiveOnly: r.URL.Query().Get("include_inactive") != "true",
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
