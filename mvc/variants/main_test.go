package variants

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"

	"variome/api/contexts"
	"variome/api/models"
	changeType "variome/api/models/constants/change-type"
	"variome/api/models/constants/source"
	"variome/api/models/entities"
	"variome/api/repositories"
	"variome/api/repositories/memory"
)

func setUpEcho(store repositories.Store, method string, path string) (*contexts.VariomeContext, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	vc := &contexts.VariomeContext{
		Context: c,
		Config:  &models.Config{},
		Store:   store,
	}
	return vc, rec
}

func getJsonBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	body, _ := io.ReadAll(rec.Body)
	var bodyJson map[string]interface{}
	json.Unmarshal(body, &bodyJson)
	return bodyJson
}

func TestGetCurrentVariantsOverview(t *testing.T) {
	store := memory.NewStore()
	batch := store.Begin()
	batch.StageVariant(&entities.Variant{
		Id: "v1", ReleaseId: 1, GenomicCoordinateHg38: "chr17:g.43045711:T>C",
		ChangeType:       changeType.Added,
		SourceMembership: map[string]bool{source.ClinVar: true, source.Lovd: true},
	})
	batch.StageVariant(&entities.Variant{
		Id: "v2", ReleaseId: 1, GenomicCoordinateHg38: "chr13:g.32316461:G>A",
		ChangeType:       changeType.Deleted,
		SourceMembership: map[string]bool{source.ClinVar: true},
	})
	assert.NoError(t, batch.Commit(context.Background()))

	t.Run("should return 200 and tally the snapshot", func(t *testing.T) {
		vc, rec := setUpEcho(store, http.MethodGet, "/variants/current/overview")

		assert.NoError(t, GetCurrentVariantsOverview(vc))
		assert.Equal(t, http.StatusOK, rec.Code)

		body := getJsonBody(rec)
		data := body["data"].(map[string]interface{})

		assert.Equal(t, float64(2), data["total"])
		assert.Equal(t, float64(1), data["changeTypes"].(map[string]interface{})["added"])
		assert.Equal(t, float64(1), data["changeTypes"].(map[string]interface{})["deleted"])
		assert.Equal(t, float64(2), data["sources"].(map[string]interface{})["ClinVar"])
		assert.Equal(t, float64(1), data["sources"].(map[string]interface{})["LOVD"])
	})
}
