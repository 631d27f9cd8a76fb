package contexts

import (
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"

	"variome/api/models"
	"variome/api/repositories"
	"variome/api/services"
	"variome/api/services/beacon"
	"variome/api/services/concordance"
)

type (
	// "Helper" Context to pass into routes that need
	//  the storage collaborators and global singletons
	VariomeContext struct {
		echo.Context
		Es7Client *es7.Client
		Config    *models.Config

		Store              repositories.Store
		IngestionService   *services.ReleaseIngestionService
		ConcordanceService *concordance.Service
		BeaconService      *beacon.BeaconService
	}
)
