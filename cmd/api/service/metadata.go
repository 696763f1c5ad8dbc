package service

import (
	"context"
	"strings"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
)

// MetadataService owns the annotations attached to diagram activities
type MetadataService struct {
	mapas     MapaStore
	metadados MetadadosStore
	log       *logger.Logger
}

// NewMetadataService creates a new metadata service
func NewMetadataService(mapas MapaStore, metadados MetadadosStore, log *logger.Logger) *MetadataService {
	return &MetadataService{mapas: mapas, metadados: metadados, log: log}
}

// UpsertInput carries one metadata record keyed by its natural key
type UpsertInput struct {
	IDMapa      int64    `json:"id_mapa"`
	IDAtividade string   `json:"id_atividade"`
	Nome        string   `json:"nome"`
	LGPD        string   `json:"lgpd"`
	Dados       []string `json:"dados"`
}

// Upsert writes a metadata record. Records are identified by
// (id_mapa, id_atividade, nome): a repeat write with the same key updates
// the existing row in place instead of growing a duplicate.
func (s *MetadataService) Upsert(ctx context.Context, in UpsertInput) (*models.Metadados, error) {
	if strings.TrimSpace(in.IDAtividade) == "" {
		return nil, apperr.InvalidArgument("id_atividade is required")
	}
	if strings.TrimSpace(in.Nome) == "" {
		return nil, apperr.InvalidArgument("nome is required")
	}

	if _, err := s.mapas.Get(ctx, nil, in.IDMapa); err != nil {
		return nil, err
	}

	m := &models.Metadados{
		IDMapa:      in.IDMapa,
		IDAtividade: in.IDAtividade,
		Nome:        in.Nome,
		LGPD:        in.LGPD,
		Dados:       in.Dados,
	}
	if m.Dados == nil {
		m.Dados = []string{}
	}
	if err := s.metadados.UpsertByKey(ctx, nil, m); err != nil {
		return nil, err
	}

	s.log.Info("upserted metadados",
		"metadados_id", m.ID,
		"mapa_id", in.IDMapa,
		"id_atividade", in.IDAtividade,
	)
	return m, nil
}

// Get fetches one record by surrogate id
func (s *MetadataService) Get(ctx context.Context, id int64) (*models.Metadados, error) {
	return s.metadados.Get(ctx, nil, id)
}

// UpdatePartial patches a record by surrogate id. Key fields may move the
// record onto another activity; a patch that lands on an existing key
// surfaces as Conflict.
func (s *MetadataService) UpdatePartial(ctx context.Context, id int64, patch models.MetadadosPatch) (*models.Metadados, error) {
	if patch.IDAtividade != nil && strings.TrimSpace(*patch.IDAtividade) == "" {
		return nil, apperr.InvalidArgument("id_atividade cannot be blank")
	}
	if patch.Nome != nil && strings.TrimSpace(*patch.Nome) == "" {
		return nil, apperr.InvalidArgument("nome cannot be blank")
	}

	if err := s.metadados.Update(ctx, nil, id, patch); err != nil {
		return nil, err
	}
	return s.metadados.Get(ctx, nil, id)
}

// ListByKey returns the records of one activity of one diagram
func (s *MetadataService) ListByKey(ctx context.Context, idMapa int64, idAtividade string) ([]*models.Metadados, error) {
	if _, err := s.mapas.Get(ctx, nil, idMapa); err != nil {
		return nil, err
	}
	return s.metadados.ListByKey(ctx, nil, idMapa, idAtividade)
}

// ListAll returns every metadata record
func (s *MetadataService) ListAll(ctx context.Context) ([]*models.Metadados, error) {
	return s.metadados.ListAll(ctx, nil)
}

// Delete removes one record by surrogate id
func (s *MetadataService) Delete(ctx context.Context, id int64) error {
	if _, err := s.metadados.Get(ctx, nil, id); err != nil {
		return err
	}
	if err := s.metadados.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.log.Info("deleted metadados", "metadados_id", id)
	return nil
}
