package service

import (
	"context"

	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/models"
	"github.com/sucupira/processmap/common/repository"
)

// The services depend on narrow store interfaces instead of the concrete
// repositories so the engines can be exercised against in-memory fakes.
// The repository types in common/repository satisfy them; the q parameter
// carries the transaction when an operation must be atomic (nil means
// "use the pool").

// TxRunner scopes a group of store calls to one transaction
type TxRunner interface {
	// InTx runs fn atomically
	InTx(ctx context.Context, fn func(q db.Querier) error) error
	// InTreeTx runs fn atomically while holding the forest advisory lock
	InTreeTx(ctx context.Context, fn func(q db.Querier) error) error
}

// ProcessoStore is the persistence surface for processes
type ProcessoStore interface {
	Get(ctx context.Context, q db.Querier, id int64) (*models.Processo, error)
	Create(ctx context.Context, q db.Querier, p *models.Processo) error
	ListChildren(ctx context.Context, q db.Querier, parentID int64) ([]*models.Processo, error)
	ListRoots(ctx context.Context, q db.Querier) ([]*models.Processo, error)
	ListAll(ctx context.Context, q db.Querier) ([]*models.Processo, error)
	Update(ctx context.Context, q db.Querier, id int64, patch models.ProcessoPatch) error
	SetParent(ctx context.Context, q db.Querier, id int64, parentID *int64, ordem *int) error
	Delete(ctx context.Context, q db.Querier, id int64) error
	SearchByTitle(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Processo, error)
}

// MacroProcessoStore is the persistence surface for macro-processes
type MacroProcessoStore interface {
	Get(ctx context.Context, q db.Querier, id int64) (*models.MacroProcesso, error)
	Create(ctx context.Context, q db.Querier, m *models.MacroProcesso) error
	List(ctx context.Context, q db.Querier) ([]*models.MacroProcesso, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
	SearchByTitle(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.MacroProcesso, error)
}

// AssociacaoStore is the persistence surface for macro/process links
type AssociacaoStore interface {
	GetByProcesso(ctx context.Context, q db.Querier, processoID int64) (*models.Associacao, error)
	Upsert(ctx context.Context, q db.Querier, a *models.Associacao) error
	DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) error
	DeleteByMacro(ctx context.Context, q db.Querier, macroID int64) error
	ListByMacro(ctx context.Context, q db.Querier, macroID int64) ([]*models.Associacao, error)
	ListAll(ctx context.Context, q db.Querier) ([]*models.Associacao, error)
}

// MapaStore is the persistence surface for diagrams
type MapaStore interface {
	Get(ctx context.Context, q db.Querier, id int64) (*models.Mapa, error)
	Create(ctx context.Context, q db.Querier, m *models.Mapa) error
	ListByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]*models.Mapa, error)
	ListAll(ctx context.Context, q db.Querier) ([]*models.Mapa, error)
	SaveXML(ctx context.Context, q db.Querier, id int64, xml string) error
	SetStatus(ctx context.Context, q db.Querier, id int64, status models.MapaStatus) error
	SetProcesso(ctx context.Context, q db.Querier, id, processoID int64) error
	SetTitulo(ctx context.Context, q db.Querier, id int64, titulo string) error
	Delete(ctx context.Context, q db.Querier, id int64) error
	DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]int64, error)
	SearchByText(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Mapa, error)
	CountByStatus(ctx context.Context, q db.Querier) (map[models.MapaStatus]int64, error)
	CountWithStatus(ctx context.Context, q db.Querier, status models.MapaStatus) (int64, error)
	RecentByModification(ctx context.Context, q db.Querier, status models.MapaStatus, limit int) ([]*repository.ProcessoComStatus, error)
}

// MetadadosStore is the persistence surface for metadata records
type MetadadosStore interface {
	Get(ctx context.Context, q db.Querier, id int64) (*models.Metadados, error)
	UpsertByKey(ctx context.Context, q db.Querier, m *models.Metadados) error
	Update(ctx context.Context, q db.Querier, id int64, patch models.MetadadosPatch) error
	ListByKey(ctx context.Context, q db.Querier, idMapa int64, idAtividade string) ([]*models.Metadados, error)
	ListAll(ctx context.Context, q db.Querier) ([]*models.Metadados, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
	DeleteByMapas(ctx context.Context, q db.Querier, mapaIDs []int64) error
	Search(ctx context.Context, q db.Querier, patterns []string, limit int, includePayload bool) ([]*models.Metadados, error)
}

// AreaStore is the persistence surface for areas
type AreaStore interface {
	Get(ctx context.Context, q db.Querier, id int64) (*models.Area, error)
	Create(ctx context.Context, q db.Querier, a *models.Area) error
	List(ctx context.Context, q db.Querier) ([]*models.Area, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
	Search(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Area, error)
}

// DocumentoStore is the persistence surface for documents
type DocumentoStore interface {
	Get(ctx context.Context, q db.Querier, id int64) (*models.Documento, error)
	Create(ctx context.Context, q db.Querier, d *models.Documento) error
	ListByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]*models.Documento, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
	DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) error
	Search(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Documento, error)
}

// UsuarioStore is the persistence surface for users
type UsuarioStore interface {
	Create(ctx context.Context, q db.Querier, u *models.Usuario) error
	GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Usuario, error)
	List(ctx context.Context, q db.Querier) ([]*models.Usuario, error)
	EmailExists(ctx context.Context, q db.Querier, email string) (bool, error)
}
