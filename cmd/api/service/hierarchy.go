package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/models"
)

const hierarchyCacheKey = "hierarchy:full"

// MapaRef is the lightweight diagram reference embedded in hierarchy nodes
type MapaRef struct {
	ID              int64             `json:"id"`
	Titulo          string            `json:"titulo"`
	Status          models.MapaStatus `json:"status"`
	DataModificacao time.Time         `json:"data_modificacao"`
}

// HierarchyNode is one process with its nested subprocesses and diagrams.
// Subprocesses come before diagrams in the serialized child order.
type HierarchyNode struct {
	ID             int64            `json:"id"`
	Titulo         string           `json:"titulo"`
	IDArea         *int64           `json:"id_area"`
	Ordem          *int             `json:"ordem"`
	DataPublicacao *time.Time       `json:"data_publicacao"`
	Filhos         []*HierarchyNode `json:"filhos"`
	Mapas          []MapaRef        `json:"mapas"`
}

// MacroGroup is a macro-process with its grouped top-level processes
type MacroGroup struct {
	ID        int64            `json:"id"`
	Titulo    string           `json:"titulo"`
	Processos []*HierarchyNode `json:"processos"`
}

// HierarchyView is the full nested read model served to the front end.
// Avulsos are the root processes not grouped under any macro-process.
type HierarchyView struct {
	MacroProcessos []*MacroGroup    `json:"macro_processos"`
	Avulsos        []*HierarchyNode `json:"processos"`
}

// Hierarchy assembles the whole forest in four batch queries and serves it
// from cache until the next structural mutation.
func (s *TreeService) Hierarchy(ctx context.Context) (*HierarchyView, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, hierarchyCacheKey); err == nil && ok {
			var view HierarchyView
			if err := json.Unmarshal(raw, &view); err == nil {
				return &view, nil
			}
			// Unreadable entry, fall through and rebuild.
		}
	}

	view, err := s.buildHierarchy(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(view); err == nil {
			if err := s.cache.Set(ctx, hierarchyCacheKey, raw, s.cacheTTL); err != nil {
				s.log.Warn("hierarchy cache write failed", "error", err)
			}
		}
	}
	return view, nil
}

func (s *TreeService) buildHierarchy(ctx context.Context) (*HierarchyView, error) {
	all, err := s.processos.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	allMapas, err := s.mapas.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	macros, err := s.macros.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	assocs, err := s.assocs.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	mapasByProc := make(map[int64][]MapaRef)
	for _, m := range allMapas {
		mapasByProc[m.IDProc] = append(mapasByProc[m.IDProc], MapaRef{
			ID:              m.ID,
			Titulo:          m.Titulo,
			Status:          m.Status,
			DataModificacao: m.DataModificacao,
		})
	}

	children := childIndex(all)
	for _, siblings := range children {
		sortSiblings(siblings)
	}

	var buildNode func(p *models.Processo, depth int) (*HierarchyNode, error)
	buildNode = func(p *models.Processo, depth int) (*HierarchyNode, error) {
		if depth > maxTreeDepth {
			return nil, fmt.Errorf("hierarchy exceeds depth %d at processo %d: %w",
				maxTreeDepth, p.ID, apperr.ErrCycleDetected)
		}
		node := &HierarchyNode{
			ID:             p.ID,
			Titulo:         p.Titulo,
			IDArea:         p.IDArea,
			Ordem:          p.Ordem,
			DataPublicacao: p.DataPublicacao,
			Filhos:         []*HierarchyNode{},
			Mapas:          mapasByProc[p.ID],
		}
		if node.Mapas == nil {
			node.Mapas = []MapaRef{}
		}
		for _, child := range children[p.ID] {
			sub, err := buildNode(child, depth+1)
			if err != nil {
				return nil, err
			}
			node.Filhos = append(node.Filhos, sub)
		}
		return node, nil
	}

	byID := make(map[int64]*models.Processo, len(all))
	var roots []*models.Processo
	for _, p := range all {
		byID[p.ID] = p
		if p.IDPai == nil {
			roots = append(roots, p)
		}
	}

	assocByMacro := make(map[int64][]*models.Associacao)
	grouped := make(map[int64]bool)
	for _, a := range assocs {
		assocByMacro[a.MacroProcessoID] = append(assocByMacro[a.MacroProcessoID], a)
		grouped[a.ProcessoID] = true
	}

	view := &HierarchyView{
		MacroProcessos: []*MacroGroup{},
		Avulsos:        []*HierarchyNode{},
	}

	for _, macro := range macros {
		group := &MacroGroup{ID: macro.ID, Titulo: macro.Titulo, Processos: []*HierarchyNode{}}
		links := assocByMacro[macro.ID]
		sort.SliceStable(links, func(i, j int) bool {
			oi, oj := ordemOrZero(links[i].Ordem), ordemOrZero(links[j].Ordem)
			if oi != oj {
				return oi < oj
			}
			return links[i].ProcessoID < links[j].ProcessoID
		})
		for _, link := range links {
			p, ok := byID[link.ProcessoID]
			if !ok {
				continue
			}
			node, err := buildNode(p, 0)
			if err != nil {
				return nil, err
			}
			group.Processos = append(group.Processos, node)
		}
		view.MacroProcessos = append(view.MacroProcessos, group)
	}

	sortSiblings(roots)
	for _, p := range roots {
		if grouped[p.ID] {
			continue
		}
		node, err := buildNode(p, 0)
		if err != nil {
			return nil, err
		}
		view.Avulsos = append(view.Avulsos, node)
	}

	return view, nil
}

func ordemOrZero(o *int) int {
	if o == nil {
		return 0
	}
	return *o
}

// sortSiblings orders by ordem ascending with nil as zero, then id
func sortSiblings(siblings []*models.Processo) {
	sort.SliceStable(siblings, func(i, j int) bool {
		oi, oj := ordemOrZero(siblings[i].Ordem), ordemOrZero(siblings[j].Ordem)
		if oi != oj {
			return oi < oj
		}
		return siblings[i].ID < siblings[j].ID
	})
}
