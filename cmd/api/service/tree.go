package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/cache"
	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
)

// maxTreeDepth bounds recursive walks. Write-time checks keep the forest
// acyclic, but pre-existing corrupt data must not hang a read.
const maxTreeDepth = 100

// TreeService owns the process forest: parent/child links, macro-process
// associations, sibling ordering, safe moves and cascading deletes.
type TreeService struct {
	tx         TxRunner
	processos  ProcessoStore
	macros     MacroProcessoStore
	assocs     AssociacaoStore
	mapas      MapaStore
	metadados  MetadadosStore
	documentos DocumentoStore
	cache      cache.Cache
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	tx TxRunner,
	processos ProcessoStore,
	macros MacroProcessoStore,
	assocs AssociacaoStore,
	mapas MapaStore,
	metadados MetadadosStore,
	documentos DocumentoStore,
	viewCache cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *TreeService {
	return &TreeService{
		tx:         tx,
		processos:  processos,
		macros:     macros,
		assocs:     assocs,
		mapas:      mapas,
		metadados:  metadados,
		documentos: documentos,
		cache:      viewCache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// CreateProcessoInput carries the fields for a new process
type CreateProcessoInput struct {
	IDPai          *int64     `json:"id_pai"`
	IDArea         *int64     `json:"id_area"`
	Ordem          *int       `json:"ordem"`
	Titulo         string     `json:"titulo"`
	DataPublicacao *time.Time `json:"data_publicacao"`
}

// CreateProcesso inserts a new process node. The parent, when given, must
// exist.
func (s *TreeService) CreateProcesso(ctx context.Context, in CreateProcessoInput) (*models.Processo, error) {
	if strings.TrimSpace(in.Titulo) == "" {
		return nil, apperr.InvalidArgument("titulo is required")
	}

	if in.IDPai != nil {
		if _, err := s.processos.Get(ctx, nil, *in.IDPai); err != nil {
			return nil, fmt.Errorf("validate parent: %w", err)
		}
	}

	p := &models.Processo{
		IDPai:          in.IDPai,
		IDArea:         in.IDArea,
		Ordem:          in.Ordem,
		Titulo:         in.Titulo,
		DataPublicacao: in.DataPublicacao,
	}
	if err := s.processos.Create(ctx, nil, p); err != nil {
		return nil, err
	}

	s.log.Info("created processo", "processo_id", p.ID, "id_pai", in.IDPai)
	s.invalidateViews(ctx)
	return p, nil
}

// GetProcesso fetches one process
func (s *TreeService) GetProcesso(ctx context.Context, id int64) (*models.Processo, error) {
	return s.processos.Get(ctx, nil, id)
}

// ListChildren returns the direct children of a process ordered by ordem,
// ties broken by ascending id.
func (s *TreeService) ListChildren(ctx context.Context, parentID int64) ([]*models.Processo, error) {
	if _, err := s.processos.Get(ctx, nil, parentID); err != nil {
		return nil, err
	}
	return s.processos.ListChildren(ctx, nil, parentID)
}

// ListRoots returns the processes without a parent
func (s *TreeService) ListRoots(ctx context.Context) ([]*models.Processo, error) {
	return s.processos.ListRoots(ctx, nil)
}

// UpdateProcesso applies a sparse patch. A patch that rewrites the parent
// link goes through the same cycle validation as MoveToParent, so no write
// path can corrupt the forest.
func (s *TreeService) UpdateProcesso(ctx context.Context, id int64, patch models.ProcessoPatch) (*models.Processo, error) {
	if patch.IDPai != nil {
		if err := s.moveToParentThenPatch(ctx, id, patch); err != nil {
			return nil, err
		}
		return s.processos.Get(ctx, nil, id)
	}

	if _, err := s.processos.Get(ctx, nil, id); err != nil {
		return nil, err
	}
	if err := s.processos.Update(ctx, nil, id, patch); err != nil {
		return nil, err
	}
	s.invalidateViews(ctx)
	return s.processos.Get(ctx, nil, id)
}

// moveToParentThenPatch applies a parent-rewriting patch. The move and the
// residual field updates commit as one transaction so a rejected move leaves
// the row untouched.
func (s *TreeService) moveToParentThenPatch(ctx context.Context, id int64, patch models.ProcessoPatch) error {
	targetParentID := *patch.IDPai
	if id == targetParentID {
		return fmt.Errorf("processo %d cannot be its own parent: %w", id, apperr.ErrCycleDetected)
	}

	err := s.tx.InTreeTx(ctx, func(q db.Querier) error {
		if err := s.reparent(ctx, q, id, targetParentID, patch.Ordem); err != nil {
			return err
		}
		rest := patch
		rest.IDPai = nil
		rest.Ordem = nil
		if rest.IsEmpty() {
			return nil
		}
		return s.processos.Update(ctx, q, id, rest)
	})
	if err != nil {
		return err
	}

	s.log.Info("moved processo to parent", "processo_id", id, "parent_id", targetParentID)
	s.invalidateViews(ctx)
	return nil
}

// DeleteProcesso removes a process and, in one atomic unit, its
// association, its diagrams, their metadata, its documents and every
// descendant with the same treatment. A second delete of the same id
// returns NotFound.
func (s *TreeService) DeleteProcesso(ctx context.Context, id int64) error {
	err := s.tx.InTreeTx(ctx, func(q db.Querier) error {
		if _, err := s.processos.Get(ctx, q, id); err != nil {
			return err
		}

		all, err := s.processos.ListAll(ctx, q)
		if err != nil {
			return err
		}
		children := childIndex(all)

		order, err := subtreeDepthFirst(children, id)
		if err != nil {
			return err
		}

		// Leaves first, so no row ever references a deleted parent.
		for i := len(order) - 1; i >= 0; i-- {
			if err := s.deleteNode(ctx, q, order[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted processo subtree", "processo_id", id)
	s.invalidateViews(ctx)
	return nil
}

// deleteNode removes one process row and everything hanging off it
func (s *TreeService) deleteNode(ctx context.Context, q db.Querier, id int64) error {
	if err := s.assocs.DeleteByProcesso(ctx, q, id); err != nil {
		return err
	}

	mapaIDs, err := s.mapas.DeleteByProcesso(ctx, q, id)
	if err != nil {
		return err
	}
	if err := s.metadados.DeleteByMapas(ctx, q, mapaIDs); err != nil {
		return err
	}

	if err := s.documentos.DeleteByProcesso(ctx, q, id); err != nil {
		return err
	}

	return s.processos.Delete(ctx, q, id)
}

// MoveToMacro groups a root process under a macro-process, replacing any
// previous association. A process still rooted under a parent cannot be
// grouped: the caller must detach it first with MoveToRoot.
func (s *TreeService) MoveToMacro(ctx context.Context, processoID, macroID int64, ordem *int) error {
	err := s.tx.InTreeTx(ctx, func(q db.Querier) error {
		p, err := s.processos.Get(ctx, q, processoID)
		if err != nil {
			return err
		}
		if p.IDPai != nil {
			return fmt.Errorf("processo %d is a subprocess of %d: %w",
				processoID, *p.IDPai, apperr.ErrInvalidAssociation)
		}

		if _, err := s.macros.Get(ctx, q, macroID); err != nil {
			return err
		}

		return s.assocs.Upsert(ctx, q, &models.Associacao{
			MacroProcessoID: macroID,
			ProcessoID:      processoID,
			Ordem:           ordem,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("moved processo to macro", "processo_id", processoID, "macro_id", macroID)
	s.invalidateViews(ctx)
	return nil
}

// MoveToParent re-roots a process under a new parent. Self-parenting and
// moves under a descendant are rejected; any macro association is cleared
// because a node cannot be both grouped and parented.
func (s *TreeService) MoveToParent(ctx context.Context, processoID, targetParentID int64, ordem *int) error {
	if processoID == targetParentID {
		return fmt.Errorf("processo %d cannot be its own parent: %w", processoID, apperr.ErrCycleDetected)
	}

	err := s.tx.InTreeTx(ctx, func(q db.Querier) error {
		return s.reparent(ctx, q, processoID, targetParentID, ordem)
	})
	if err != nil {
		return err
	}

	s.log.Info("moved processo to parent", "processo_id", processoID, "parent_id", targetParentID)
	s.invalidateViews(ctx)
	return nil
}

// reparent validates and applies a parent rewrite under the caller's
// transaction. Both endpoints must exist and the target may not sit inside
// the moved subtree.
func (s *TreeService) reparent(ctx context.Context, q db.Querier, processoID, targetParentID int64, ordem *int) error {
	if _, err := s.processos.Get(ctx, q, processoID); err != nil {
		return err
	}
	if _, err := s.processos.Get(ctx, q, targetParentID); err != nil {
		return err
	}

	all, err := s.processos.ListAll(ctx, q)
	if err != nil {
		return err
	}
	children := childIndex(all)

	descendant, err := isDescendant(children, processoID, targetParentID)
	if err != nil {
		return err
	}
	if descendant {
		return fmt.Errorf("processo %d is a descendant of %d: %w",
			targetParentID, processoID, apperr.ErrCycleDetected)
	}

	if err := s.assocs.DeleteByProcesso(ctx, q, processoID); err != nil {
		return err
	}
	return s.processos.SetParent(ctx, q, processoID, &targetParentID, ordem)
}

// MoveToRoot detaches a process from its parent, turning it back into a
// plain root. Grouping under a macro-process becomes possible again.
func (s *TreeService) MoveToRoot(ctx context.Context, processoID int64, ordem *int) error {
	err := s.tx.InTreeTx(ctx, func(q db.Querier) error {
		if _, err := s.processos.Get(ctx, q, processoID); err != nil {
			return err
		}
		return s.processos.SetParent(ctx, q, processoID, nil, ordem)
	})
	if err != nil {
		return err
	}

	s.log.Info("moved processo to root", "processo_id", processoID)
	s.invalidateViews(ctx)
	return nil
}

// CreateMacroProcesso inserts a new macro-process
func (s *TreeService) CreateMacroProcesso(ctx context.Context, titulo string, dataPublicacao *time.Time) (*models.MacroProcesso, error) {
	if strings.TrimSpace(titulo) == "" {
		return nil, apperr.InvalidArgument("titulo is required")
	}

	m := &models.MacroProcesso{Titulo: titulo, DataPublicacao: dataPublicacao}
	if err := s.macros.Create(ctx, nil, m); err != nil {
		return nil, err
	}

	s.invalidateViews(ctx)
	return m, nil
}

// ListMacroProcessos returns all macro-processes
func (s *TreeService) ListMacroProcessos(ctx context.Context) ([]*models.MacroProcesso, error) {
	return s.macros.List(ctx, nil)
}

// DeleteMacroProcesso removes a macro-process and its associations; the
// grouped processes survive as plain roots.
func (s *TreeService) DeleteMacroProcesso(ctx context.Context, id int64) error {
	err := s.tx.InTx(ctx, func(q db.Querier) error {
		if _, err := s.macros.Get(ctx, q, id); err != nil {
			return err
		}
		if err := s.assocs.DeleteByMacro(ctx, q, id); err != nil {
			return err
		}
		return s.macros.Delete(ctx, q, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted macro_processo", "macro_id", id)
	s.invalidateViews(ctx)
	return nil
}

func (s *TreeService) invalidateViews(ctx context.Context) {
	invalidateViews(ctx, s.cache, s.log)
}

// childIndex builds an adjacency map keyed by parent id. A single batch
// fetch plus this index replaces the N+1 point queries of the original
// design.
func childIndex(all []*models.Processo) map[int64][]*models.Processo {
	children := make(map[int64][]*models.Processo)
	for _, p := range all {
		if p.IDPai == nil {
			continue
		}
		children[*p.IDPai] = append(children[*p.IDPai], p)
	}
	return children
}

// subtreeDepthFirst returns the subtree rooted at id in pre-order,
// failing with CycleDetected past the depth cap.
func subtreeDepthFirst(children map[int64][]*models.Processo, id int64) ([]int64, error) {
	var order []int64
	var walk func(node int64, depth int) error
	walk = func(node int64, depth int) error {
		if depth > maxTreeDepth {
			return fmt.Errorf("subtree of processo %d exceeds depth %d: %w", id, maxTreeDepth, apperr.ErrCycleDetected)
		}
		order = append(order, node)
		for _, child := range children[node] {
			if err := walk(child.ID, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(id, 0); err != nil {
		return nil, err
	}
	return order, nil
}

// isDescendant reports whether candidate is inside the subtree rooted at root
func isDescendant(children map[int64][]*models.Processo, root, candidate int64) (bool, error) {
	order, err := subtreeDepthFirst(children, root)
	if err != nil {
		return false, err
	}
	for _, id := range order[1:] {
		if id == candidate {
			return true, nil
		}
	}
	return false, nil
}
