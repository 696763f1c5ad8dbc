package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/models"
)

func TestUpsertTwiceKeepsOneRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	first, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf", LGPD: "sim", Dados: []string{"a"},
	})
	require.NoError(t, err)

	second, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf", LGPD: "não", Dados: []string{"b", "c"},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	all, err := f.metadata.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "não", all[0].LGPD)
	assert.Equal(t, []string{"b", "c"}, all[0].Dados)
}

func TestUpsertValidatesKeyFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "", Nome: "cpf"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_1", Nome: " "})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestUpsertRequiresMapa(t *testing.T) {
	f := newFixture()

	_, err := f.metadata.Upsert(context.Background(), UpsertInput{
		IDMapa: 404, IDAtividade: "Task_1", Nome: "cpf",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpsertNilPayloadBecomesEmptyList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	rec, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf",
	})
	require.NoError(t, err)
	assert.NotNil(t, rec.Dados)
	assert.Empty(t, rec.Dados)
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	rec, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf", LGPD: "sim",
	})
	require.NoError(t, err)

	got, err := f.metadata.UpdatePartial(ctx, rec.ID, models.MetadadosPatch{
		LGPD:  ptrString("não"),
		Dados: &[]string{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "não", got.LGPD)
	assert.Equal(t, []string{"x"}, got.Dados)
	assert.Equal(t, "cpf", got.Nome)
}

func TestUpdatePartialRejectsBlankKeyFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	rec, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf",
	})
	require.NoError(t, err)

	_, err = f.metadata.UpdatePartial(ctx, rec.ID, models.MetadadosPatch{Nome: ptrString("  ")})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestUpdatePartialOntoExistingKeyConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf"})
	require.NoError(t, err)
	other, err := f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_1", Nome: "rg"})
	require.NoError(t, err)

	_, err = f.metadata.UpdatePartial(ctx, other.ID, models.MetadadosPatch{Nome: ptrString("cpf")})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestListByKey(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf"})
	require.NoError(t, err)
	_, err = f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_1", Nome: "rg"})
	require.NoError(t, err)
	_, err = f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_2", Nome: "cpf"})
	require.NoError(t, err)

	got, err := f.metadata.ListByKey(ctx, m.ID, "Task_1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDeleteMetadados(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	rec, err := f.metadata.Upsert(ctx, UpsertInput{IDMapa: m.ID, IDAtividade: "Task_1", Nome: "cpf"})
	require.NoError(t, err)

	require.NoError(t, f.metadata.Delete(ctx, rec.ID))
	err = f.metadata.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
