package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo"
)

// feed attributes every ingestion run must name; `deletions` is the
// one optional feed
var requiredFeedAttributes = []string{
	"variants", "notes", "reports", "removedReports", "variantsDiff", "reportsDiff",
}

/*
Echo middleware to ensure an ingestion run names every required feed file
*/
func MandateReleaseFeedAttributes(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		for _, attribute := range requiredFeedAttributes {
			if len(c.QueryParam(attribute)) == 0 {
				// if any feed attribute is missing, return an error
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("Missing '%s' query parameter!", attribute))
			}
		}

		return next(c)
	}
}
