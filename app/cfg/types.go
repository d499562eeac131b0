package cfg

type Cfg struct {
	// HTTP server
	Port string

	// Nextcloud (WebDAV file store + Deck API)
	NextcloudURL      string
	NextcloudUser     string
	NextcloudPassword string
	ProposalsFilePath string
	SourcesDir        string

	// Mensa menu feed
	MensaAPIURL     string
	MensaAPIKey     string
	MensaLocationID string

	// Google Custom Search (food images)
	GoogleAPIKey         string
	GoogleSearchEngineID string

	// News ticker feeds (RSS/Atom)
	NewsFeedURLs []string
	NewsMaxItems int

	// Image cache store
	CacheDBPath string

	// Application metadata
	UserAgent          string
	Timezone           string
	InsecureSkipVerify bool
	Debug              bool
	Version            string
}
