package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"variome/api/models/entities"
	"variome/api/repositories"
)

/*
	In-memory Store used by the test suites and as a zero-infrastructure
	development mode. Batches stage everything and publish under one
	lock on Commit, so a release is never partially visible.
*/

type Store struct {
	mux sync.RWMutex

	releases []*entities.Release
	variants []*entities.Variant
	reports  []*entities.Report

	// extra documents staged through StageDocument, keyed by index name
	documents map[string][]map[string]interface{}
}

func NewStore() *Store {
	return &Store{
		documents: map[string][]map[string]interface{}{},
	}
}

func (s *Store) LatestRelease(_ context.Context) (*entities.Release, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var latest *entities.Release
	for _, r := range s.releases {
		if latest == nil || r.Id > latest.Id {
			latest = r
		}
	}
	return latest, nil
}

func (s *Store) Releases(_ context.Context) ([]*entities.Release, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	releases := make([]*entities.Release, len(s.releases))
	copy(releases, s.releases)
	sort.Slice(releases, func(i, j int) bool { return releases[i].Id < releases[j].Id })
	return releases, nil
}

func (s *Store) VariantByCoordinate(_ context.Context, releaseId int, coordinateHg38 string) (*entities.Variant, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	for _, v := range s.variants {
		if v.ReleaseId == releaseId && v.GenomicCoordinateHg38 == coordinateHg38 {
			return v, nil
		}
	}
	return nil, nil
}

func (s *Store) CurrentVariants(_ context.Context) ([]*entities.Variant, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	currentByCoordinate := map[string]*entities.Variant{}
	for _, v := range s.variants {
		existing, found := currentByCoordinate[v.GenomicCoordinateHg38]
		if !found || v.ReleaseId > existing.ReleaseId {
			currentByCoordinate[v.GenomicCoordinateHg38] = v
		}
	}

	coordinates := make([]string, 0, len(currentByCoordinate))
	for coordinate := range currentByCoordinate {
		coordinates = append(coordinates, coordinate)
	}
	sort.Strings(coordinates)

	current := make([]*entities.Variant, 0, len(coordinates))
	for _, coordinate := range coordinates {
		current = append(current, currentByCoordinate[coordinate])
	}
	return current, nil
}

func (s *Store) ReportsByCoordinate(_ context.Context, coordinateHg38 string) ([]*entities.Report, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var reports []*entities.Report
	for _, r := range s.reports {
		if r.GenomicCoordinateHg38 == coordinateHg38 {
			reports = append(reports, r)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].ReleaseId < reports[j].ReleaseId })
	return reports, nil
}

func (s *Store) Begin() repositories.Batch {
	return &batch{store: s}
}

// Documents exposes staged-and-committed auxiliary documents (diff
// artifacts etc.) for assertions in tests.
func (s *Store) Documents(index string) []map[string]interface{} {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.documents[index]
}

type batch struct {
	store *Store

	releases  []*entities.Release
	variants  []*entities.Variant
	reports   []*entities.Report
	documents map[string][]map[string]interface{}
}

func (b *batch) StageRelease(release *entities.Release) {
	b.releases = append(b.releases, release)
}

func (b *batch) StageVariant(variant *entities.Variant) {
	b.variants = append(b.variants, variant)
}

func (b *batch) StageReport(report *entities.Report) {
	b.reports = append(b.reports, report)
}

func (b *batch) StageDocument(index string, document map[string]interface{}) {
	if b.documents == nil {
		b.documents = map[string][]map[string]interface{}{}
	}
	b.documents[index] = append(b.documents[index], document)
}

func (b *batch) Commit(_ context.Context) error {
	b.store.mux.Lock()
	defer b.store.mux.Unlock()

	b.store.releases = append(b.store.releases, b.releases...)
	b.store.variants = append(b.store.variants, b.variants...)
	b.store.reports = append(b.store.reports, b.reports...)
	for index, docs := range b.documents {
		b.store.documents[index] = append(b.store.documents[index], docs...)
	}
	return nil
}

// DiffImporter is the memory counterpart of the Elasticsearch diff
// importer: it validates the artifacts are JSON and stages them as-is.
type DiffImporter struct{}

func (DiffImporter) Import(_ context.Context, releaseId int, variantsDiff json.RawMessage, reportsDiff json.RawMessage, batch repositories.Batch) error {
	for name, artifact := range map[string]json.RawMessage{"variants": variantsDiff, "reports": reportsDiff} {
		var parsed interface{}
		if err := json.Unmarshal(artifact, &parsed); err != nil {
			return fmt.Errorf("%s diff artifact is not valid JSON: %v", name, err)
		}
		batch.StageDocument("release-diffs", map[string]interface{}{
			"releaseId": releaseId,
			"kind":      name,
			"diff":      parsed,
		})
	}
	return nil
}

// NoopRefresher satisfies the refresh collaborators for a store whose
// read model is computed on read.
type NoopRefresher struct{}

func (NoopRefresher) Refresh(_ context.Context) error { return nil }
func (NoopRefresher) Rebuild(_ context.Context) error { return nil }
