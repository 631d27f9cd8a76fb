package elasticsearch

import (
	"context"

	"variome/api/models/entities"
)

func (s *Store) LatestRelease(ctx context.Context) (*entities.Release, error) {
	query := map[string]interface{}{
		"size": 1,
		"sort": []map[string]interface{}{
			{"id": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}

	sources, err := s.searchSources(ctx, releasesIndex, query)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, nil
	}

	var release entities.Release
	if err := decodeSource(sources[0], &release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (s *Store) Releases(ctx context.Context) ([]*entities.Release, error) {
	query := map[string]interface{}{
		"size": maxResultWindow,
		"sort": []map[string]interface{}{
			{"id": map[string]interface{}{"order": "asc"}},
		},
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}

	sources, err := s.searchSources(ctx, releasesIndex, query)
	if err != nil {
		return nil, err
	}

	releases := make([]*entities.Release, 0, len(sources))
	for _, source := range sources {
		var release entities.Release
		if err := decodeSource(source, &release); err != nil {
			continue
		}
		releases = append(releases, &release)
	}
	return releases, nil
}
