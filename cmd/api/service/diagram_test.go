package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/models"
)

func TestCreateMapaDefaults(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Compras", nil, nil)

	m, err := f.diagrams.Create(context.Background(), CreateMapaInput{IDProc: p.ID})
	require.NoError(t, err)

	assert.Equal(t, "Mapa - Compras", m.Titulo)
	assert.Equal(t, models.StatusEmAndamento, m.Status)
	assert.Contains(t, m.XML, "bpmn:definitions")
	assert.Contains(t, m.XML, "StartEvent_1")
}

func TestCreateMapaTitleFallsBackToProcessID(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("  ", nil, nil)

	m, err := f.diagrams.Create(context.Background(), CreateMapaInput{IDProc: p.ID})
	require.NoError(t, err)
	assert.Contains(t, m.Titulo, "Mapa do Processo #")
}

func TestCreateMapaKeepsExplicitFields(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Compras", nil, nil)
	status := models.StatusPendente

	m, err := f.diagrams.Create(context.Background(), CreateMapaInput{
		IDProc: p.ID,
		Titulo: "Fluxo de aquisição",
		XML:    "<custom/>",
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fluxo de aquisição", m.Titulo)
	assert.Equal(t, models.StatusPendente, m.Status)
	assert.Equal(t, "<custom/>", m.XML)
}

func TestCreateMapaRequiresProcess(t *testing.T) {
	f := newFixture()

	_, err := f.diagrams.Create(context.Background(), CreateMapaInput{IDProc: 404})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateMapaRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Compras", nil, nil)
	bad := models.MapaStatus("Rascunho")

	_, err := f.diagrams.Create(context.Background(), CreateMapaInput{IDProc: p.ID, Status: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestGetMapaMissingIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.diagrams.Get(context.Background(), 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSaveBumpsModification(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)
	before := m.DataModificacao

	time.Sleep(time.Millisecond)
	got, err := f.diagrams.Save(context.Background(), m.ID, "<updated/>")
	require.NoError(t, err)
	assert.Equal(t, "<updated/>", got.XML)
	assert.True(t, got.DataModificacao.After(before))
}

func TestSaveRejectsEmptyBody(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.diagrams.Save(context.Background(), m.ID, "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.diagrams.UpdateStatus(context.Background(), m.ID, models.MapaStatus("Inventado"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	got, err := f.diagrams.UpdateStatus(context.Background(), m.ID, models.StatusConcluido)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConcluido, got.Status)
}

func TestMoveMapaRequiresTarget(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Origem", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.diagrams.Move(context.Background(), m.ID, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	target := f.seedProcesso("Destino", nil, nil)
	got, err := f.diagrams.Move(context.Background(), m.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, got.IDProc)
}

func TestDeleteMapaRemovesMetadata(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf", LGPD: "sim",
	})
	require.NoError(t, err)

	require.NoError(t, f.diagrams.Delete(ctx, m.ID))

	_, err = f.diagrams.Get(ctx, m.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	remaining, err := f.metadados.ListAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
