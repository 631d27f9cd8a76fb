package variants

import (
	"fmt"
	"net/http"
	"time"

	"variome/api/contexts"
	changeType "variome/api/models/constants/change-type"
	"variome/api/models/dtos"
	"variome/api/models/dtos/errors"

	"github.com/labstack/echo"
)

// GetCurrentVariantsOverview tallies the current-variant snapshot by
// change type and by contributing source.
func GetCurrentVariantsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetCurrentVariantsOverview hit!\n", time.Now())
	vc := c.(*contexts.VariomeContext)

	variants, err := vc.Store.CurrentVariants(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	changeTypeCounts := map[string]int{}
	sourceCounts := map[string]int{}
	for _, variant := range variants {
		changeTypeCounts[changeType.ChangeTypeToString(variant.ChangeType)]++
		for sourceName, member := range variant.SourceMembership {
			if member {
				sourceCounts[sourceName]++
			}
		}
	}

	return c.JSON(http.StatusOK, dtos.VariantsOverviewResponseDTO{
		Status:  http.StatusOK,
		Message: "Success",
		Data: map[string]interface{}{
			"total":       len(variants),
			"changeTypes": changeTypeCounts,
			"sources":     sourceCounts,
		},
	})
}
