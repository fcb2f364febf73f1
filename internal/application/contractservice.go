package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

const contractBasePath = "/financial-management/contract"

var (
	// ErrInvalidContractType is returned when a contract type is neither
	// sales ("S") nor purchase ("P").
	ErrInvalidContractType = errors.New("contract type must be S or P")

	// ErrInvalidYear is returned for a non-positive year.
	ErrInvalidYear = errors.New("year must be positive")

	// ErrNoIDs is returned by batch deletes called with an empty id list.
	ErrNoIDs = errors.New("at least one id is required")
)

// ContractService manages sales and purchase contracts and their Excel
// import/export.
type ContractService struct {
	backend driven.Backend
}

// NewContractService creates a ContractService.
func NewContractService(backend driven.Backend) *ContractService {
	return &ContractService{backend: backend}
}

// List returns the year's contracts grouped by type.
func (s *ContractService) List(ctx context.Context, year int) (*model.ContractList, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}

	list := &model.ContractList{}
	err := call(ctx, s.backend, "list contracts", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            contractBasePath + "/list",
		Query:           yearQuery(year),
		Body:            emptyBody,
		FallbackMessage: "failed to load contracts",
	}, list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Create registers a new contract. TotalAmount is derived from the monthly
// amounts.
func (s *ContractService) Create(ctx context.Context, req model.ContractRequest) error {
	if err := validateContract(req); err != nil {
		return err
	}
	req.ContractID = 0
	req.TotalAmount = req.MonthlyAmounts.Total()

	return call(ctx, s.backend, "create contract", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            contractBasePath + "/create",
		Body:            req,
		FallbackMessage: "failed to create contract",
	}, nil)
}

// Update replaces contract id. TotalAmount is derived from the monthly
// amounts.
func (s *ContractService) Update(ctx context.Context, id int64, req model.ContractRequest) error {
	if err := validateContract(req); err != nil {
		return err
	}
	req.ContractID = id
	req.TotalAmount = req.MonthlyAmounts.Total()

	return call(ctx, s.backend, "update contract", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            contractBasePath + "/update",
		Body:            req,
		FallbackMessage: "failed to update contract",
	}, nil)
}

// Delete removes the given contracts.
func (s *ContractService) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return ErrNoIDs
	}

	return call(ctx, s.backend, "delete contracts", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            contractBasePath + "/delete",
		Body:            map[string][]int64{"contractIds": ids},
		FallbackMessage: "failed to delete contracts",
	}, nil)
}

// DeleteAll removes every contract of one type in a year.
func (s *ContractService) DeleteAll(ctx context.Context, year int, typ model.ContractType) error {
	if year <= 0 {
		return ErrInvalidYear
	}
	if !typ.Valid() {
		return ErrInvalidContractType
	}

	return call(ctx, s.backend, "delete all contracts", driven.BackendRequest{
		Method: http.MethodPost,
		Path:   contractBasePath + "/delete/all",
		Body: struct {
			Year int                `json:"year"`
			Type model.ContractType `json:"type"`
		}{year, typ},
		FallbackMessage: "failed to delete contracts",
	}, nil)
}

// UploadExcel imports contracts from a spreadsheet.
func (s *ContractService) UploadExcel(ctx context.Context, filename string, content io.Reader) error {
	return call(ctx, s.backend, "upload contract excel", driven.BackendRequest{
		Method: http.MethodPost,
		Path:   contractBasePath + "/list/excel/upload",
		Body: driven.MultipartFile{
			FieldName: "file",
			FileName:  filename,
			Content:   content,
		},
		FallbackMessage: "excel upload failed",
	}, nil)
}

// DownloadExcel exports the year's contracts as a spreadsheet.
func (s *ContractService) DownloadExcel(ctx context.Context, year int) (*model.Download, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}

	file, err := s.backend.Download(ctx, driven.BackendRequest{
		Method:           http.MethodPost,
		Path:             contractBasePath + "/list/excel/download",
		Query:            yearQuery(year),
		Body:             emptyBody,
		FallbackMessage:  "excel download failed",
		FallbackFilename: fmt.Sprintf("contracts_%d.xlsx", year),
	})
	if err != nil {
		return nil, fmt.Errorf("download contract excel: %w", err)
	}
	return file, nil
}

func validateContract(req model.ContractRequest) error {
	if !req.Type.Valid() {
		return ErrInvalidContractType
	}
	if req.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

func yearQuery(year int) url.Values {
	return url.Values{"year": {strconv.Itoa(year)}}
}
