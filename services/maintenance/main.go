package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"variome/api/models"
	"variome/api/repositories"
)

type (
	MaintenanceService struct {
		Initialized     bool
		Config          *models.Config
		CurrentVariants repositories.CurrentVariantRefresher
		Autocomplete    repositories.AutocompleteIndexer
	}
)

func NewMaintenanceService(
	cfg *models.Config,
	currentVariants repositories.CurrentVariantRefresher,
	autocomplete repositories.AutocompleteIndexer) *MaintenanceService {

	mz := &MaintenanceService{
		Initialized:     false,
		Config:          cfg,
		CurrentVariants: currentVariants,
		Autocomplete:    autocomplete,
	}

	mz.Init()

	return mz
}

func (mz *MaintenanceService) Init() {
	// initialization if necessary
	if !mz.Initialized {
		// - spin up a go routine that periodically recomputes the
		//   derived state (current-variant read model, autocomplete
		//   words) so a post-commit refresh failure during ingestion
		//   heals without intervention
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			s.Every(1).Days().At("04:00:00").Do(func() { // 12am EST
				fmt.Printf("[%s] - Running derived-state maintenance..\n", time.Now())

				if err := mz.CurrentVariants.Refresh(context.Background()); err != nil {
					fmt.Printf("[%s] - Error refreshing current-variant read model : %v..\n", time.Now(), err)
					return
				}
				if err := mz.Autocomplete.Rebuild(context.Background()); err != nil {
					fmt.Printf("[%s] - Error rebuilding autocomplete words : %v..\n", time.Now(), err)
				}
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		mz.Initialized = true
		fmt.Println("Maintenance Service Initialized ..")
	}
}
