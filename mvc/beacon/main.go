package beacon

import (
	"fmt"
	"net/http"
	"time"

	"variome/api/contexts"
	"variome/api/models/dtos/errors"

	"github.com/labstack/echo"
)

// BeaconRefresh re-queries the beacon network for every current
// single-nucleotide variant. The pass can take a while on large
// snapshots so the handler blocks until it finishes.
func BeaconRefresh(c echo.Context) error {
	fmt.Printf("[%s] - BeaconRefresh hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)

	processed, err := vc.BeaconService.UpdateBeaconData(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":            http.StatusOK,
		"message":           "Success",
		"variantsProcessed": processed,
	})
}
