package elasticsearch

import (
	"context"

	"variome/api/models/entities"
)

func (s *Store) VariantByCoordinate(ctx context.Context, releaseId int, coordinateHg38 string) (*entities.Variant, error) {
	query := map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"releaseId": releaseId}},
					{"term": map[string]interface{}{"genomicCoordinateHg38.keyword": coordinateHg38}},
				},
			},
		},
	}

	sources, err := s.searchSources(ctx, variantsIndex, query)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, nil
	}

	var variant entities.Variant
	if err := decodeSource(sources[0], &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

// AllVariants pulls the full append-only variant record, used by the
// current-variant read-model refresher.
func (s *Store) AllVariants(ctx context.Context) ([]*entities.Variant, error) {
	return s.searchVariants(ctx, variantsIndex)
}

func (s *Store) CurrentVariants(ctx context.Context) ([]*entities.Variant, error) {
	return s.searchVariants(ctx, currentVariantsIndex)
}

func (s *Store) searchVariants(ctx context.Context, index string) ([]*entities.Variant, error) {
	query := map[string]interface{}{
		"size": maxResultWindow,
		"sort": []map[string]interface{}{
			{"genomicCoordinateHg38.keyword": map[string]interface{}{"order": "asc"}},
			{"releaseId": map[string]interface{}{"order": "asc"}},
		},
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}

	sources, err := s.searchSources(ctx, index, query)
	if err != nil {
		return nil, err
	}

	variants := make([]*entities.Variant, 0, len(sources))
	for _, source := range sources {
		var variant entities.Variant
		if err := decodeSource(source, &variant); err != nil {
			continue
		}
		variants = append(variants, &variant)
	}
	return variants, nil
}
