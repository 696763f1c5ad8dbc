package service

import (
	"context"
	"strings"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
)

// AreaService manages the organizational areas processes are tagged with
type AreaService struct {
	areas AreaStore
	log   *logger.Logger
}

// NewAreaService creates a new area service
func NewAreaService(areas AreaStore, log *logger.Logger) *AreaService {
	return &AreaService{areas: areas, log: log}
}

// Create inserts a new area
func (s *AreaService) Create(ctx context.Context, nomeArea, sigla, tipo string) (*models.Area, error) {
	if strings.TrimSpace(nomeArea) == "" {
		return nil, apperr.InvalidArgument("nome_area is required")
	}

	a := &models.Area{NomeArea: nomeArea, Sigla: sigla, Tipo: tipo}
	if err := s.areas.Create(ctx, nil, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get fetches one area
func (s *AreaService) Get(ctx context.Context, id int64) (*models.Area, error) {
	return s.areas.Get(ctx, nil, id)
}

// List returns all areas
func (s *AreaService) List(ctx context.Context) ([]*models.Area, error) {
	return s.areas.List(ctx, nil)
}

// Delete removes an area
func (s *AreaService) Delete(ctx context.Context, id int64) error {
	if _, err := s.areas.Get(ctx, nil, id); err != nil {
		return err
	}
	return s.areas.Delete(ctx, nil, id)
}

// DocumentService manages the reference documents linked to processes
type DocumentService struct {
	documentos DocumentoStore
	processos  ProcessoStore
	log        *logger.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(documentos DocumentoStore, processos ProcessoStore, log *logger.Logger) *DocumentService {
	return &DocumentService{documentos: documentos, processos: processos, log: log}
}

// Create inserts a new document, optionally linked to a process
func (s *DocumentService) Create(ctx context.Context, idProc *int64, nome, link string) (*models.Documento, error) {
	if strings.TrimSpace(nome) == "" {
		return nil, apperr.InvalidArgument("nome_documento is required")
	}
	if idProc != nil {
		if _, err := s.processos.Get(ctx, nil, *idProc); err != nil {
			return nil, err
		}
	}

	d := &models.Documento{IDProc: idProc, NomeDocumento: nome, Link: link}
	if err := s.documentos.Create(ctx, nil, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get fetches one document
func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Documento, error) {
	return s.documentos.Get(ctx, nil, id)
}

// ListByProcesso returns the documents linked to a process
func (s *DocumentService) ListByProcesso(ctx context.Context, processoID int64) ([]*models.Documento, error) {
	if _, err := s.processos.Get(ctx, nil, processoID); err != nil {
		return nil, err
	}
	return s.documentos.ListByProcesso(ctx, nil, processoID)
}

// Delete removes a document
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.documentos.Get(ctx, nil, id); err != nil {
		return err
	}
	return s.documentos.Delete(ctx, nil, id)
}
