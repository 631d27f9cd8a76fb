package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Variome Curation Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Variome curation API!"
	SERVICE_DESCRIPTION ServiceInfo = "Release ingestion and cross-source concordance service for variant curation data."
	SERVICE_CONTACT     ServiceInfo = "mailto:curation@variome.local"

	SERVICE_ARTIFACT    ServiceInfo = "variome"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.variome:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
