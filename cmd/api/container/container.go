package container

import (
	"github.com/sucupira/processmap/cmd/api/service"
	"github.com/sucupira/processmap/common/auth"
	"github.com/sucupira/processmap/common/bootstrap"
	"github.com/sucupira/processmap/common/repository"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components  *bootstrap.Components
	TokenIssuer *auth.TokenIssuer

	// Repositories
	ProcessoRepo      *repository.ProcessoRepository
	MacroProcessoRepo *repository.MacroProcessoRepository
	AssociacaoRepo    *repository.AssociacaoRepository
	MapaRepo          *repository.MapaRepository
	MetadadosRepo     *repository.MetadadosRepository
	AreaRepo          *repository.AreaRepository
	DocumentoRepo     *repository.DocumentoRepository
	UsuarioRepo       *repository.UsuarioRepository

	// Services
	TreeService      *service.TreeService
	DiagramService   *service.DiagramService
	MetadataService  *service.MetadataService
	SearchService    *service.SearchService
	DashboardService *service.DashboardService
	AuthService      *service.AuthService
	AreaService      *service.AreaService
	DocumentService  *service.DocumentService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	issuer := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenExpiry)

	// Initialize repositories
	processoRepo := repository.NewProcessoRepository(components.DB)
	macroRepo := repository.NewMacroProcessoRepository(components.DB)
	assocRepo := repository.NewAssociacaoRepository(components.DB)
	mapaRepo := repository.NewMapaRepository(components.DB)
	metadadosRepo := repository.NewMetadadosRepository(components.DB)
	areaRepo := repository.NewAreaRepository(components.DB)
	documentoRepo := repository.NewDocumentoRepository(components.DB)
	usuarioRepo := repository.NewUsuarioRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	treeService := service.NewTreeService(
		components.DB,
		processoRepo,
		macroRepo,
		assocRepo,
		mapaRepo,
		metadadosRepo,
		documentoRepo,
		components.Cache,
		cfg.Cache.DefaultTTL,
		log,
	)
	diagramService := service.NewDiagramService(
		components.DB,
		processoRepo,
		mapaRepo,
		metadadosRepo,
		components.Cache,
		log,
	)
	metadataService := service.NewMetadataService(mapaRepo, metadadosRepo, log)
	searchService := service.NewSearchService(
		cfg.Search,
		processoRepo,
		macroRepo,
		mapaRepo,
		metadadosRepo,
		areaRepo,
		documentoRepo,
		components.Cache,
		cfg.Cache.DefaultTTL,
		log,
	)
	dashboardService := service.NewDashboardService(mapaRepo, components.Cache, cfg.Cache.DefaultTTL, log)
	authService := service.NewAuthService(usuarioRepo, issuer, cfg.Auth.BcryptCost, log)
	areaService := service.NewAreaService(areaRepo, log)
	documentService := service.NewDocumentService(documentoRepo, processoRepo, log)

	return &Container{
		Components:        components,
		TokenIssuer:       issuer,
		ProcessoRepo:      processoRepo,
		MacroProcessoRepo: macroRepo,
		AssociacaoRepo:    assocRepo,
		MapaRepo:          mapaRepo,
		MetadadosRepo:     metadadosRepo,
		AreaRepo:          areaRepo,
		DocumentoRepo:     documentoRepo,
		UsuarioRepo:       usuarioRepo,
		TreeService:       treeService,
		DiagramService:    diagramService,
		MetadataService:   metadataService,
		SearchService:     searchService,
		DashboardService:  dashboardService,
		AuthService:       authService,
		AreaService:       areaService,
		DocumentService:   documentService,
	}, nil
}
