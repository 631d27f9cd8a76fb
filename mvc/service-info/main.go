package serviceInfo

import (
	"net/http"

	"github.com/labstack/echo"

	serviceInfo "variome/api/models/constants/service-info"
)

func GetServiceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":          serviceInfo.SERVICE_ID,
		"name":        serviceInfo.SERVICE_NAME,
		"type":        serviceInfo.SERVICE_TYPE,
		"description": serviceInfo.SERVICE_DESCRIPTION,
		"contactUrl":  serviceInfo.SERVICE_CONTACT,
		"version":     serviceInfo.SERVICE_VERSION,
	})
}
