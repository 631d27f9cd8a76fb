package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"variome/api/contexts"
	vam "variome/api/middleware"
	"variome/api/models"
	serviceInfo "variome/api/models/constants/service-info"
	beaconMvc "variome/api/mvc/beacon"
	concordanceMvc "variome/api/mvc/concordance"
	releasesMvc "variome/api/mvc/releases"
	serviceInfoMvc "variome/api/mvc/service-info"
	variantsMvc "variome/api/mvc/variants"
	"variome/api/repositories"
	esRepo "variome/api/repositories/elasticsearch"
	"variome/api/repositories/memory"
	"variome/api/services"
	"variome/api/services/beacon"
	"variome/api/services/concordance"
	"variome/api/services/maintenance"
	"variome/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather configuration: optional YAML file, then environment variables
	cfgPointer, err := models.LoadConfig(os.Getenv("VARIOME_CONFIG_FILE_PATH"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	cfg := *cfgPointer

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tFeed Directory Path : %s \n"+
		"\tExport Directory Path : %s \n"+
		"\tBulk Indexing Cap : %d\n"+
		"\tConcordance Concurrency Level : %d\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"\tBeacon Network Beacons Url : %s\n"+
		"\tBeacon Network Responses Url : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.FeedPath,
		cfg.Api.ExportPath,
		cfg.Api.BulkIndexingCap,
		cfg.Api.ConcordanceConcurrencyLevel,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Beacon.BeaconsUrl,
		cfg.Beacon.ResponsesUrl,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch (or the in-memory store when no cluster is
	//    configured, for zero-infrastructure development)
	var es *es7.Client
	var store repositories.Store
	var diffImporter repositories.DiffImporter
	var currentVariants repositories.CurrentVariantRefresher
	var autocomplete repositories.AutocompleteIndexer

	if cfg.Elasticsearch.Url != "" {
		es = utils.CreateEsConnection(&cfg)
		esStore := esRepo.NewStore(&cfg, es)

		store = esStore
		diffImporter = esRepo.DiffImporter{}
		currentVariants = &esRepo.CurrentVariantRefresher{Store: esStore}
		autocomplete = &esRepo.AutocompleteIndexer{Store: esStore}
	} else {
		fmt.Println("No Elasticsearch Url configured -- using the in-memory store")

		store = memory.NewStore()
		diffImporter = memory.DiffImporter{}
		currentVariants = memory.NoopRefresher{}
		autocomplete = memory.NoopRefresher{}
	}

	// Service Singletons
	iz := services.NewReleaseIngestionService(&cfg, store, diffImporter, autocomplete, currentVariants)
	cz := concordance.NewConcordanceService(&cfg, store)
	bz := beacon.NewBeaconService(&cfg, store)
	maintenance.NewMaintenanceService(&cfg, currentVariants, autocomplete)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom Variome" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.VariomeContext{
				Context:            c,
				Es7Client:          es,
				Config:             &cfg,
				Store:              store,
				IngestionService:   iz,
				ConcordanceService: cz,
				BeaconService:      bz,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Releases
	e.GET("/releases", releasesMvc.GetAllReleases)
	e.GET("/releases/latest", releasesMvc.GetLatestRelease)
	e.GET("/releases/ingestion/run", releasesMvc.ReleasesIngest,
		// middleware
		vam.MandateReleaseFeedAttributes)
	e.GET("/releases/ingestion/requests", releasesMvc.GetAllReleaseIngestionRequests)

	// -- Variants
	e.GET("/variants/current/overview", variantsMvc.GetCurrentVariantsOverview)

	// -- Concordance
	e.GET("/concordance/export", concordanceMvc.ConcordanceExport)
	e.GET("/concordance/stats", concordanceMvc.GetConcordanceStats)

	// -- Beacon
	e.GET("/beacon/refresh", beaconMvc.BeaconRefresh)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
