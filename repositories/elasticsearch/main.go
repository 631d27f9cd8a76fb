package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"

	"variome/api/models"
)

const (
	releasesIndex        = "releases"
	variantsIndex        = "variants"
	reportsIndex         = "reports"
	currentVariantsIndex = "current-variants"
	releaseDiffsIndex    = "release-diffs"
	autocompleteIndex    = "autocomplete-words"
	beaconDataIndex      = "beacon-data"
)

// one page is plenty; releases are small and variant/report scans page
// at the ES result-window ceiling
const maxResultWindow = 10000

type Store struct {
	Config *models.Config
	Client *es7.Client
}

func NewStore(cfg *models.Config, es *es7.Client) *Store {
	return &Store{Config: cfg, Client: es}
}

// searchSources runs one search and returns the _source maps of all
// hits, in ES result order.
func (s *Store) searchSources(ctx context.Context, index string, query map[string]interface{}) ([]map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("error encoding query: %v", err)
	}

	if s.Config.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	res, searchErr := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(index),
		s.Client.Search.WithBody(&buf),
		s.Client.Search.WithTrackTotalHits(true),
	)
	if searchErr != nil {
		fmt.Printf("Error getting response: %s\n", searchErr)
		return nil, searchErr
	}
	defer res.Body.Close()

	if res.IsError() {
		// a missing index just means nothing was ingested yet
		if res.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("search against '%s' failed: %s", index, res.Status())
	}

	result := make(map[string]interface{})
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		fmt.Printf("Error unmarshalling response: %s\n", err)
		return nil, err
	}

	// gather data from "hits"
	docsHits := result["hits"].(map[string]interface{})["hits"]
	allDocHits := []map[string]interface{}{}
	mapstructure.Decode(docsHits, &allDocHits)

	sources := make([]map[string]interface{}, 0, len(allDocHits))
	for _, hit := range allDocHits {
		source, ok := hit["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// decodeSource casts a hit _source onto a typed document via a JSON
// round trip.
func decodeSource(source map[string]interface{}, target interface{}) error {
	byteSlice, err := json.Marshal(source)
	if err != nil {
		return err
	}
	return json.Unmarshal(byteSlice, target)
}
