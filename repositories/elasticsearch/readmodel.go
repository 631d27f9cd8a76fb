package elasticsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetb/go-linq"

	"variome/api/models/entities"
)

// CurrentVariantRefresher recomputes the current-variants index: one
// row per hg38 coordinate, taken from the highest release the
// coordinate appears in. The relational original kept this as a
// materialized view.
type CurrentVariantRefresher struct {
	Store *Store
}

func (r *CurrentVariantRefresher) Refresh(ctx context.Context) error {
	fmt.Printf("[%s] - Refreshing current-variant read model..\n", time.Now())

	variants, err := r.Store.AllVariants(ctx)
	if err != nil {
		return err
	}

	var current []*entities.Variant
	linq.From(variants).
		GroupByT(
			func(v *entities.Variant) string { return v.GenomicCoordinateHg38 },
			func(v *entities.Variant) *entities.Variant { return v }).
		SelectT(func(g linq.Group) *entities.Variant {
			return linq.From(g.Group).
				OrderByDescendingT(func(v *entities.Variant) int { return v.ReleaseId }).
				First().(*entities.Variant)
		}).
		OrderByT(func(v *entities.Variant) string { return v.GenomicCoordinateHg38 }).
		ToSlice(&current)

	documents := make([]stagedDocument, 0, len(current))
	for _, variant := range current {
		documents = append(documents, stagedDocument{
			index:      currentVariantsIndex,
			documentId: variant.GenomicCoordinateHg38,
			document:   variant,
		})
	}

	return r.Store.recreateIndex(ctx, currentVariantsIndex, documents)
}
