package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func TestMandateReleaseFeedAttributes(t *testing.T) {
	e := echo.New()
	handler := MandateReleaseFeedAttributes(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("should pass a request naming every required feed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/releases/ingestion/run?variants=v.tsv&notes=n.json&reports=r.tsv&removedReports=rr.tsv&variantsDiff=vd.json&reportsDiff=rd.json", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should reject a request missing a required feed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/releases/ingestion/run?variants=v.tsv&notes=n.json", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		httpError, isHttpError := err.(*echo.HTTPError)
		assert.True(t, isHttpError)
		assert.Equal(t, http.StatusBadRequest, httpError.Code)
	})

	t.Run("should not require the optional deletions feed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/releases/ingestion/run?variants=v.tsv&notes=n.json&reports=r.tsv&removedReports=rr.tsv&variantsDiff=vd.json&reportsDiff=rd.json&deletions=", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		assert.NoError(t, err)
	})
}
