package models

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	Debug bool `yaml:"debug" envconfig:"VARIOME_DEBUG"`
	Api   struct {
		Port                        string `yaml:"port" envconfig:"VARIOME_API_INTERNAL_PORT"`
		Url                         string `yaml:"url" envconfig:"VARIOME_API_URL"`
		FeedPath                    string `yaml:"feedpath" envconfig:"VARIOME_API_FEED_PATH"`
		ExportPath                  string `yaml:"exportpath" envconfig:"VARIOME_API_EXPORT_PATH"`
		BulkIndexingCap             int    `yaml:"bulkindexingcap" envconfig:"VARIOME_API_BULK_INDEXING_CAP"`
		ConcordanceConcurrencyLevel int    `yaml:"concordanceconcurrencylevel" envconfig:"VARIOME_API_CONCORDANCE_CONCURRENCY_LEVEL"`
	} `yaml:"api"`
	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"VARIOME_ES_URL"`
		Username string `yaml:"username" envconfig:"VARIOME_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"VARIOME_ES_PASSWORD"`
	} `yaml:"elasticsearch"`
	Beacon struct {
		BeaconsUrl   string `yaml:"beaconsurl" envconfig:"VARIOME_BEACON_BEACONS_URL"`
		ResponsesUrl string `yaml:"responsesurl" envconfig:"VARIOME_BEACON_RESPONSES_URL"`
		MaxRetries   int    `yaml:"maxretries" envconfig:"VARIOME_BEACON_MAX_RETRIES"`
	} `yaml:"beacon"`
}

// LoadConfig reads defaults from an optional YAML file and then lets
// environment variables override them.
func LoadConfig(configFilePath string) (*Config, error) {
	var cfg Config

	if configFilePath != "" {
		f, err := os.Open(configFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed opening config file: %v", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed decoding config file: %v", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
