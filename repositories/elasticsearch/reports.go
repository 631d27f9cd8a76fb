package elasticsearch

import (
	"context"

	"variome/api/models/entities"
)

func (s *Store) ReportsByCoordinate(ctx context.Context, coordinateHg38 string) ([]*entities.Report, error) {
	query := map[string]interface{}{
		"size": maxResultWindow,
		"sort": []map[string]interface{}{
			{"releaseId": map[string]interface{}{"order": "asc"}},
		},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"genomicCoordinateHg38.keyword": coordinateHg38}},
				},
			},
		},
	}

	sources, err := s.searchSources(ctx, reportsIndex, query)
	if err != nil {
		return nil, err
	}

	reports := make([]*entities.Report, 0, len(sources))
	for _, source := range sources {
		var report entities.Report
		if err := decodeSource(source, &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}
	return reports, nil
}
