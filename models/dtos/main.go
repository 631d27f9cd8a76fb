package dtos

import (
	"time"

	"github.com/google/uuid"

	"variome/api/models/entities"
	"variome/api/models/ingest"
)

type ReleaseIngestResponseDTO struct {
	Id      uuid.UUID    `json:"id"`
	State   ingest.State `json:"state"`
	Message string       `json:"message"`
}

type ReleasesResponseDTO struct {
	Status   int                 `json:"status"`
	Message  string              `json:"message"`
	Releases []*entities.Release `json:"releases"`
}

// ConcordanceRunSummary reports what the last classifier pass did,
// including the count of significance terms that failed to classify
// (vocabulary drift diagnostic -- they contribute to no verdict).
type ConcordanceRunSummary struct {
	RowsWritten       int       `json:"rowsWritten"`
	VariantsExcluded  int       `json:"variantsExcluded"`
	UnrecognizedTerms int       `json:"unrecognizedTerms"`
	RanAt             time.Time `json:"ranAt"`
}

type VariantsOverviewResponseDTO struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// -- error response DTOs

type GeneralError struct {
	Message string `json:"message"`
}

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}
