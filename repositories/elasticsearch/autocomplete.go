package elasticsearch

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AutocompleteIndexer rebuilds the search-suggestion word index from
// the current-variant snapshot (coordinates and HGVS strings).
type AutocompleteIndexer struct {
	Store *Store
}

func (a *AutocompleteIndexer) Rebuild(ctx context.Context) error {
	fmt.Printf("[%s] - Rebuilding autocomplete word index..\n", time.Now())

	variants, err := a.Store.CurrentVariants(ctx)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var documents []stagedDocument
	for _, variant := range variants {
		for _, value := range []string{
			variant.GenomicCoordinateHg38,
			variant.GenomicCoordinateHg37,
			variant.GenomicCoordinateHg36,
			variant.HgvsCdna,
			variant.HgvsProtein,
		} {
			word := strings.ToLower(strings.TrimSpace(value))
			if word == "" || word == "-" || seen[word] {
				continue
			}
			seen[word] = true

			documents = append(documents, stagedDocument{
				index:      autocompleteIndex,
				documentId: word,
				document:   map[string]interface{}{"word": word},
			})
		}
	}

	return a.Store.recreateIndex(ctx, autocompleteIndex, documents)
}
