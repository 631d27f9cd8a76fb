package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jeffail/gabs"

	"variome/api/repositories"
)

// DiffImporter persists the two upstream diff artifacts alongside the
// release they describe. The artifacts are opaque to ingestion; here
// they are only split into per-entry documents so the UI can page
// through them. Parse failures abort the whole release.
type DiffImporter struct{}

func (DiffImporter) Import(_ context.Context, releaseId int, variantsDiff json.RawMessage, reportsDiff json.RawMessage, batch repositories.Batch) error {
	if err := stageDiffArtifact(releaseId, "variants", variantsDiff, batch); err != nil {
		return err
	}
	return stageDiffArtifact(releaseId, "reports", reportsDiff, batch)
}

func stageDiffArtifact(releaseId int, kind string, artifact json.RawMessage, batch repositories.Batch) error {
	parsed, err := gabs.ParseJSON(artifact)
	if err != nil {
		return fmt.Errorf("%s diff artifact for release %d is not valid JSON: %v", kind, releaseId, err)
	}

	entries, err := parsed.Children()
	if err != nil {
		// not a JSON array; keep the artifact whole
		batch.StageDocument(releaseDiffsIndex, map[string]interface{}{
			"releaseId": releaseId,
			"kind":      kind,
			"entry":     parsed.Data(),
		})
		return nil
	}

	for _, entry := range entries {
		batch.StageDocument(releaseDiffsIndex, map[string]interface{}{
			"releaseId": releaseId,
			"kind":      kind,
			"entry":     entry.Data(),
		})
	}
	return nil
}
