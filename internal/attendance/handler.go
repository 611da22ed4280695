package attendance

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mfadhilr/office-management/internal/transport"
)

const maxUploadBytes = 20 << 20

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(baseHandler *transport.BaseHandler, service *Service) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Import accepts a multipart upload under the "file" field and returns the
// per-row match report.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	report, err := h.Service.Import(r.Context(), file, header.Filename)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := RecordFilter{
		FromDate: r.URL.Query().Get("from"),
		ToDate:   r.URL.Query().Get("to"),
		Status:   r.URL.Query().Get("status"),
	}
	if employeeID, err := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64); err == nil {
		filter.EmployeeID = employeeID
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	records, err := h.Service.ListRecords(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.yearMonth(w, r)
	if !ok {
		return
	}

	report, err := h.Service.BuildMonthlyReport(year, month)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

// ExportMonthlyReport streams the month as an xlsx attachment.
func (h *Handler) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, ok := h.yearMonth(w, r)
	if !ok {
		return
	}

	report, err := h.Service.BuildMonthlyReport(year, month)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%04d-%02d.xlsx", year, month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.Service.WriteMonthlyWorkbook(report, w); err != nil {
		h.Logger.Error("failed to write attendance workbook", "error", err)
	}
}

func (h *Handler) yearMonth(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return 0, 0, false
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			h.WriteError(w, http.StatusBadRequest, "invalid month")
			return 0, 0, false
		}
		month = parsed
	}
	return year, month, true
}
