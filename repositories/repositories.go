package repositories

import (
	"context"
	"encoding/json"

	"variome/api/models/entities"
)

/*
	Collaborator contracts for the ingestion and concordance cores.
	The release/variant/report record lives behind Store; everything a
	single ingestion writes is staged on one Batch and becomes visible
	only when the batch commits.
*/

type Store interface {
	// LatestRelease returns nil (not an error) when nothing has been
	// ingested yet.
	LatestRelease(ctx context.Context) (*entities.Release, error)
	Releases(ctx context.Context) ([]*entities.Release, error)

	// VariantByCoordinate returns the variant row a given release holds
	// for an hg38 coordinate, nil when that release never touched it.
	VariantByCoordinate(ctx context.Context, releaseId int, coordinateHg38 string) (*entities.Variant, error)

	// CurrentVariants is the read model: one row per coordinate, taken
	// from the highest release that coordinate appears in, in stable
	// coordinate order.
	CurrentVariants(ctx context.Context) ([]*entities.Variant, error)

	// ReportsByCoordinate returns every historical report across the
	// coordinate's lineage, oldest release first.
	ReportsByCoordinate(ctx context.Context, coordinateHg38 string) ([]*entities.Report, error)

	Begin() Batch
}

type Batch interface {
	StageRelease(release *entities.Release)
	StageVariant(variant *entities.Variant)
	StageReport(report *entities.Report)

	// StageDocument stages an arbitrary document for a named index;
	// used by the diff importer so diff artifacts commit (or are
	// discarded) with the release that carried them.
	StageDocument(index string, document map[string]interface{})

	Commit(ctx context.Context) error
}

// DiffImporter consumes the two upstream diff artifacts. It stages its
// output into the supplied batch: a failure here aborts the whole
// release instead of leaving an orphaned one committed.
type DiffImporter interface {
	Import(ctx context.Context, releaseId int, variantsDiff json.RawMessage, reportsDiff json.RawMessage, batch Batch) error
}

// AutocompleteIndexer rebuilds the search-suggestion word index from
// the current-variant snapshot.
type AutocompleteIndexer interface {
	Rebuild(ctx context.Context) error
}

// CurrentVariantRefresher recomputes the current-variant read model
// after a release commits.
type CurrentVariantRefresher interface {
	Refresh(ctx context.Context) error
}
