package releases

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo"

	"variome/api/contexts"
	"variome/api/models/dtos"
	"variome/api/models/dtos/errors"
	"variome/api/models/ingest"
	"variome/api/services"
)

func GetAllReleases(c echo.Context) error {
	fmt.Printf("[%s] - GetAllReleases hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)

	releases, err := vc.Store.Releases(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, dtos.ReleasesResponseDTO{
		Status:   http.StatusOK,
		Message:  "Success",
		Releases: releases,
	})
}

func GetLatestRelease(c echo.Context) error {
	fmt.Printf("[%s] - GetLatestRelease hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)

	release, err := vc.Store.LatestRelease(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}
	if release == nil {
		return c.JSON(http.StatusNotFound, errors.CreateSimpleNotFound("No release has been ingested yet"))
	}

	return c.JSON(http.StatusOK, release)
}

// ReleasesIngest queues one release ingestion. Ingestions are
// serialized: a second run is refused while one is queued or running.
func ReleasesIngest(c echo.Context) error {
	fmt.Printf("[%s] - ReleasesIngest hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)
	ingestionService := vc.IngestionService

	if ingestionService.IngestionRunning() {
		return c.JSON(http.StatusBadRequest,
			errors.CreateSimpleBadRequest("A release ingestion is already underway -- releases are ingested one at a time"))
	}

	feedFiles := services.ReleaseFeedFiles{
		Variants:       c.QueryParam("variants"),
		Notes:          c.QueryParam("notes"),
		Deletions:      c.QueryParam("deletions"), // optional
		Reports:        c.QueryParam("reports"),
		RemovedReports: c.QueryParam("removedReports"),
		VariantsDiff:   c.QueryParam("variantsDiff"),
		ReportsDiff:    c.QueryParam("reportsDiff"),
	}

	request := &ingest.ReleaseIngestRequest{
		Id:        uuid.New(),
		State:     ingest.Queued,
		CreatedAt: fmt.Sprintf("%v", time.Now()),
	}
	ingestionService.IngestRequestChan <- request

	go func(req *ingest.ReleaseIngestRequest, files services.ReleaseFeedFiles) {
		req.State = ingest.Running
		ingestionService.IngestRequestChan <- req

		releaseBatch, loadErr := ingestionService.LoadReleaseBatch(files)
		if loadErr != nil {
			req.State = ingest.Error
			req.Message = loadErr.Error()
			ingestionService.IngestRequestChan <- req
			return
		}

		release, ingestErr := ingestionService.IngestRelease(context.Background(), releaseBatch)
		if ingestErr != nil {
			req.State = ingest.Error
			req.Message = ingestErr.Error()
			ingestionService.IngestRequestChan <- req
			return
		}

		req.State = ingest.Done
		req.ReleaseId = release.Id
		req.Message = fmt.Sprintf("Release %d ingested", release.Id)
		ingestionService.IngestRequestChan <- req
	}(request, feedFiles)

	return c.JSON(http.StatusOK, dtos.ReleaseIngestResponseDTO{
		Id:      request.Id,
		State:   request.State,
		Message: "Release ingestion queued",
	})
}

func GetAllReleaseIngestionRequests(c echo.Context) error {
	fmt.Printf("[%s] - GetAllReleaseIngestionRequests hit!\n", time.Now())
	ingestionService := c.(*contexts.VariomeContext).IngestionService

	return c.JSON(http.StatusOK, ingestionService.ListRequests())
}
