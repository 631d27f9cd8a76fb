package concordance

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"variome/api/contexts"
	"variome/api/models/dtos/errors"

	"github.com/labstack/echo"
)

const exportFileName = "concordance.tsv"

// ConcordanceExport runs a full classifier pass over the current
// snapshot. With ?download=true the TSV streams back on the response;
// otherwise it lands in the configured export directory and the run
// summary comes back as JSON.
func ConcordanceExport(c echo.Context) error {
	fmt.Printf("[%s] - ConcordanceExport hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)

	if c.QueryParam("download") == "true" {
		c.Response().Header().Set(echo.HeaderContentType, "text/tab-separated-values")
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", exportFileName))
		c.Response().WriteHeader(http.StatusOK)

		_, err := vc.ConcordanceService.RunExport(c.Request().Context(), c.Response().Writer)
		return err
	}

	exportFilePath := path.Join(vc.Config.Api.ExportPath, exportFileName)
	exportFile, createErr := os.Create(exportFilePath)
	if createErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(createErr.Error()))
	}
	defer exportFile.Close()

	summary, runErr := vc.ConcordanceService.RunExport(c.Request().Context(), exportFile)
	if runErr != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(runErr.Error()))
	}

	return c.JSON(http.StatusOK, summary)
}

func GetConcordanceStats(c echo.Context) error {
	fmt.Printf("[%s] - GetConcordanceStats hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)

	summary := vc.ConcordanceService.LastRun()
	if summary == nil {
		return c.JSON(http.StatusNotFound, errors.CreateSimpleNotFound("No concordance export has run yet"))
	}

	return c.JSON(http.StatusOK, summary)
}
