package api

import (
	"github.com/wallboard/wallboard/app/cfg"
	"github.com/wallboard/wallboard/app/deck"
	"github.com/wallboard/wallboard/app/files"
	"github.com/wallboard/wallboard/app/images"
	"github.com/wallboard/wallboard/app/mensa"
	"github.com/wallboard/wallboard/app/news"
	"github.com/wallboard/wallboard/app/sources"
)

type Handler struct {
	filesService  *files.Service
	sourcesCache  *sources.Cache
	mensaService  *mensa.Service
	imagesService *images.Service
	aggregator    *deck.Aggregator
	newsService   *news.Service
	proposalsPath string
	version       string
}

func NewHandler(filesService *files.Service, sourcesCache *sources.Cache,
	mensaService *mensa.Service, imagesService *images.Service,
	aggregator *deck.Aggregator, newsService *news.Service) *Handler {
	appCfg := cfg.Get()

	return &Handler{
		filesService:  filesService,
		sourcesCache:  sourcesCache,
		mensaService:  mensaService,
		imagesService: imagesService,
		aggregator:    aggregator,
		newsService:   newsService,
		proposalsPath: appCfg.ProposalsFilePath,
		version:       appCfg.Version,
	}
}
