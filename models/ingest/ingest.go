package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

type ReleaseIngestRequest struct {
	Id        uuid.UUID `json:"id"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
	ReleaseId int       `json:"releaseId"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// Feed is one parsed tab-delimited input with its header row. Every
// row is guaranteed (by the reader) to match the header's field count.
type Feed struct {
	Header []string
	Rows   [][]string
}

// RowMap zips the header onto one row.
func (f *Feed) RowMap(rowIndex int) map[string]string {
	row := f.Rows[rowIndex]
	rowMap := make(map[string]string, len(f.Header))
	for i, column := range f.Header {
		rowMap[column] = row[i]
	}
	return rowMap
}

// ReleaseMetadata is the structured notes record accompanying a batch.
type ReleaseMetadata struct {
	Sources []string `json:"sources"`
	Date    string   `json:"date"`
	Comment string   `json:"comment"`
}

// ReleaseBatch bundles every input of one ingestion: the variant
// change-rows, the optional pure-deletions feed, current and removed
// report feeds, and the two upstream diff artifacts (opaque here,
// forwarded to the diff importer inside the ingestion boundary).
type ReleaseBatch struct {
	Metadata       ReleaseMetadata
	Variants       *Feed
	Deletions      *Feed // optional
	Reports        *Feed
	RemovedReports *Feed

	VariantsDiff json.RawMessage
	ReportsDiff  json.RawMessage
}

func (b *ReleaseBatch) Validate() error {
	if len(b.Metadata.Sources) == 0 {
		return fmt.Errorf("release metadata names no contributing sources")
	}
	if b.Variants == nil || b.Reports == nil || b.RemovedReports == nil {
		return fmt.Errorf("release batch is missing a required feed")
	}
	return nil
}
