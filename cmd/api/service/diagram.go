package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/cache"
	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
)

// defaultXMLSkeleton is the minimal BPMN document a new diagram starts
// from when the caller does not supply a body. The editor can open it
// as-is.
const defaultXMLSkeleton = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <bpmn:process id="Process_%d" name="Processo %d">
    <bpmn:startEvent id="StartEvent_1" name="Início"/>
    <bpmn:endEvent id="EndEvent_1" name="Fim"/>
  </bpmn:process>
</bpmn:definitions>`

// DiagramService owns the diagrams attached to processes: creation with
// sane defaults, body saves, status transitions and reattachment.
type DiagramService struct {
	tx        TxRunner
	processos ProcessoStore
	mapas     MapaStore
	metadados MetadadosStore
	cache     cache.Cache
	log       *logger.Logger
}

// NewDiagramService creates a new diagram service
func NewDiagramService(
	tx TxRunner,
	processos ProcessoStore,
	mapas MapaStore,
	metadados MetadadosStore,
	viewCache cache.Cache,
	log *logger.Logger,
) *DiagramService {
	return &DiagramService{
		tx:        tx,
		processos: processos,
		mapas:     mapas,
		metadados: metadados,
		cache:     viewCache,
		log:       log,
	}
}

// CreateMapaInput carries the fields for a new diagram. Titulo and XML
// are optional; sensible values are derived when absent.
type CreateMapaInput struct {
	IDProc int64              `json:"id_proc"`
	Titulo string             `json:"titulo"`
	XML    string             `json:"xml"`
	Status *models.MapaStatus `json:"status"`
}

// Create inserts a diagram for an existing process. A missing title is
// derived from the owning process, a missing body becomes the default
// skeleton, and a missing status starts as "Em andamento".
func (s *DiagramService) Create(ctx context.Context, in CreateMapaInput) (*models.Mapa, error) {
	p, err := s.processos.Get(ctx, nil, in.IDProc)
	if err != nil {
		return nil, err
	}

	status := models.StatusEmAndamento
	if in.Status != nil {
		if !models.ValidMapaStatus(*in.Status) {
			return nil, apperr.InvalidArgument("status %q is not valid", *in.Status)
		}
		status = *in.Status
	}

	m := &models.Mapa{
		IDProc: in.IDProc,
		Titulo: deriveTitulo(in.Titulo, p),
		Status: status,
		XML:    in.XML,
	}
	if m.XML == "" {
		m.XML = fmt.Sprintf(defaultXMLSkeleton, p.ID, p.ID)
	}

	if err := s.mapas.Create(ctx, nil, m); err != nil {
		return nil, err
	}

	s.log.Info("created mapa", "mapa_id", m.ID, "processo_id", in.IDProc)
	s.invalidateViews(ctx)
	return m, nil
}

// deriveTitulo picks a display title for a new diagram
func deriveTitulo(titulo string, p *models.Processo) string {
	if t := strings.TrimSpace(titulo); t != "" {
		return t
	}
	if strings.TrimSpace(p.Titulo) != "" {
		return "Mapa - " + p.Titulo
	}
	return fmt.Sprintf("Mapa do Processo #%d", p.ID)
}

// Get fetches one diagram, NotFound when it does not exist
func (s *DiagramService) Get(ctx context.Context, id int64) (*models.Mapa, error) {
	return s.mapas.Get(ctx, nil, id)
}

// ListByProcesso returns the diagrams attached to a process
func (s *DiagramService) ListByProcesso(ctx context.Context, processoID int64) ([]*models.Mapa, error) {
	if _, err := s.processos.Get(ctx, nil, processoID); err != nil {
		return nil, err
	}
	return s.mapas.ListByProcesso(ctx, nil, processoID)
}

// Save replaces the diagram body and bumps data_modificacao
func (s *DiagramService) Save(ctx context.Context, id int64, xml string) (*models.Mapa, error) {
	if strings.TrimSpace(xml) == "" {
		return nil, apperr.InvalidArgument("xml body is required")
	}
	if err := s.mapas.SaveXML(ctx, nil, id, xml); err != nil {
		return nil, err
	}
	s.invalidateViews(ctx)
	return s.mapas.Get(ctx, nil, id)
}

// UpdateStatus moves a diagram through its lifecycle
func (s *DiagramService) UpdateStatus(ctx context.Context, id int64, status models.MapaStatus) (*models.Mapa, error) {
	if !models.ValidMapaStatus(status) {
		return nil, apperr.InvalidArgument("status %q is not valid", status)
	}
	if err := s.mapas.SetStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	s.invalidateViews(ctx)
	return s.mapas.Get(ctx, nil, id)
}

// Update applies a sparse patch to title, status or body
func (s *DiagramService) Update(ctx context.Context, id int64, patch models.MapaPatch) (*models.Mapa, error) {
	if patch.Status != nil && !models.ValidMapaStatus(*patch.Status) {
		return nil, apperr.InvalidArgument("status %q is not valid", *patch.Status)
	}

	err := s.tx.InTx(ctx, func(q db.Querier) error {
		if _, err := s.mapas.Get(ctx, q, id); err != nil {
			return err
		}
		if patch.Titulo != nil {
			if strings.TrimSpace(*patch.Titulo) == "" {
				return apperr.InvalidArgument("titulo cannot be blank")
			}
			if err := s.mapas.SetTitulo(ctx, q, id, *patch.Titulo); err != nil {
				return err
			}
		}
		if patch.Status != nil {
			if err := s.mapas.SetStatus(ctx, q, id, *patch.Status); err != nil {
				return err
			}
		}
		if patch.XML != nil {
			if err := s.mapas.SaveXML(ctx, q, id, *patch.XML); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateViews(ctx)
	return s.mapas.Get(ctx, nil, id)
}

// Move reattaches a diagram to another existing process
func (s *DiagramService) Move(ctx context.Context, id, processoID int64) (*models.Mapa, error) {
	err := s.tx.InTx(ctx, func(q db.Querier) error {
		if _, err := s.mapas.Get(ctx, q, id); err != nil {
			return err
		}
		if _, err := s.processos.Get(ctx, q, processoID); err != nil {
			return err
		}
		return s.mapas.SetProcesso(ctx, q, id, processoID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("moved mapa", "mapa_id", id, "processo_id", processoID)
	s.invalidateViews(ctx)
	return s.mapas.Get(ctx, nil, id)
}

// Delete removes a diagram and its metadata in one transaction
func (s *DiagramService) Delete(ctx context.Context, id int64) error {
	err := s.tx.InTx(ctx, func(q db.Querier) error {
		if _, err := s.mapas.Get(ctx, q, id); err != nil {
			return err
		}
		if err := s.metadados.DeleteByMapas(ctx, q, []int64{id}); err != nil {
			return err
		}
		return s.mapas.Delete(ctx, q, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted mapa", "mapa_id", id)
	s.invalidateViews(ctx)
	return nil
}

func (s *DiagramService) invalidateViews(ctx context.Context) {
	invalidateViews(ctx, s.cache, s.log)
}
