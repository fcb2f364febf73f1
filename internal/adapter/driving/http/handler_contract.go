package httphandler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// maxUploadBytes caps a spreadsheet upload.
const maxUploadBytes = 20 << 20

// ListContracts returns the year's contracts grouped by type.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	list, err := h.contracts.List(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, r, "list contracts", err)
		return
	}
	if list.Sales == nil {
		list.Sales = []model.Contract{}
	}
	if list.Purchase == nil {
		list.Purchase = []model.Contract{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req model.ContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.contracts.Create(r.Context(), req); err != nil {
		h.writeServiceError(w, r, "create contract", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req model.ContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.contracts.Update(r.Context(), id, req); err != nil {
		h.writeServiceError(w, r, "update contract", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteContracts(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.contracts.Delete(r.Context(), req.IDs); err != nil {
		h.writeServiceError(w, r, "delete contracts", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllContracts removes every contract of ?type= in ?year=.
func (h *Handler) DeleteAllContracts(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	typ := model.ContractType(r.URL.Query().Get("type"))

	if err := h.contracts.DeleteAll(r.Context(), year, typ); err != nil {
		h.writeServiceError(w, r, "delete all contracts", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadContractExcel accepts a multipart form with a "file" part.
func (h *Handler) UploadContractExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if err := h.contracts.UploadExcel(r.Context(), header.Filename, file); err != nil {
		h.writeServiceError(w, r, "upload contract excel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadContractExcel streams the year's contract spreadsheet.
func (h *Handler) DownloadContractExcel(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	file, err := h.contracts.DownloadExcel(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, r, "download contract excel", err)
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
