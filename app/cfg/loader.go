package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Nextcloud configuration
	NextcloudURL      string `long:"nextcloud-url" env:"NEXTCLOUD_URL" description:"Nextcloud base URL (required)" required:"true"`
	NextcloudUser     string `long:"nextcloud-user" env:"NEXTCLOUD_USERNAME" description:"Nextcloud username (required)" required:"true"`
	NextcloudPassword string `long:"nextcloud-password" env:"NEXTCLOUD_PASSWORD" description:"Nextcloud app password (required)" required:"true"`
	ProposalsFilePath string `long:"proposals-file" env:"NEXTCLOUD_FILE_PATH" default:"/Documents/proposals.csv" description:"WebDAV path of the proposals file"`
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing additional source definition files"`

	// Mensa configuration
	MensaAPIURL     string `long:"mensa-api-url" env:"MENSA_API_URL" default:"https://www.swfr.de/apispeiseplan" description:"Mensa menu feed URL"`
	MensaAPIKey     string `long:"mensa-api-key" env:"MENSA_API_KEY" description:"Mensa menu feed API key"`
	MensaLocationID string `long:"mensa-location" env:"MENSA_LOCATION_ID" default:"610" description:"Mensa location identifier"`

	// Google Custom Search configuration
	GoogleAPIKey         string `long:"google-api-key" env:"GOOGLE_CUSTOM_SEARCH_API_KEY" description:"Google Custom Search API key"`
	GoogleSearchEngineID string `long:"google-cx" env:"GOOGLE_CUSTOM_SEARCH_ENGINE_ID" description:"Google Custom Search engine ID"`

	// News configuration
	NewsFeedURLs string `long:"news-feeds" env:"NEWS_FEED_URLS" description:"Comma-separated RSS/Atom feed URLs for the news ticker"`
	NewsMaxItems int    `long:"news-max-items" env:"NEWS_MAX_ITEMS" default:"20" description:"Maximum number of news headlines returned"`

	// Image cache store
	CacheDBPath string `long:"cache-db" env:"CACHE_DB_PATH" default:"./data/cache.db" description:"Path to the sqlite image cache database"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Wallboard-API/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Europe/Berlin" description:"Timezone for day calculations (e.g., Europe/Berlin)"`
	TLSVerify bool   `long:"tls-verify" env:"TLS_VERIFY" description:"Enable TLS certificate verification for upstream calls (off by default, the upstream servers use self-signed certificates)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := fromRaw(&raw)

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

// fromRaw maps the parsed flags onto the runtime configuration. Certificate
// verification is opt-in: unless --tls-verify is given, upstream calls skip it.
func fromRaw(raw *rawCfg) *Cfg {
	return &Cfg{
		Port:                 raw.Port,
		NextcloudURL:         strings.TrimRight(raw.NextcloudURL, "/"),
		NextcloudUser:        raw.NextcloudUser,
		NextcloudPassword:    raw.NextcloudPassword,
		ProposalsFilePath:    raw.ProposalsFilePath,
		SourcesDir:           raw.SourcesDir,
		MensaAPIURL:          raw.MensaAPIURL,
		MensaAPIKey:          raw.MensaAPIKey,
		MensaLocationID:      raw.MensaLocationID,
		GoogleAPIKey:         raw.GoogleAPIKey,
		GoogleSearchEngineID: raw.GoogleSearchEngineID,
		NewsFeedURLs:         splitFeedURLs(raw.NewsFeedURLs),
		NewsMaxItems:         raw.NewsMaxItems,
		CacheDBPath:          raw.CacheDBPath,
		UserAgent:            raw.UserAgent,
		Timezone:             raw.Timezone,
		InsecureSkipVerify:   !raw.TLSVerify,
		Debug:                raw.Debug,
		Version:              GetVersion(),
	}
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

func splitFeedURLs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var urls []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}
