package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/models"
)

func TestDashboardView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.seedProcesso("A", nil, nil)
	b := f.seedProcesso("B", nil, nil)
	f.seedProcesso("Sem mapa", nil, nil)

	f.seedMapa(a.ID, "Mapa A", models.StatusConcluido)
	f.seedMapa(b.ID, "Mapa B", models.StatusEmAndamento)

	view, err := f.dashboard.View(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, int64(2), view.Stats.TotalProcessos)
	assert.Equal(t, int64(1), view.Stats.StatusCounts[models.StatusConcluido])
	assert.Equal(t, int64(1), view.Stats.StatusCounts[models.StatusEmAndamento])
	assert.Len(t, view.ProcessosRecentes, 2)
}

func TestDashboardStatusFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.seedProcesso("A", nil, nil)
	b := f.seedProcesso("B", nil, nil)
	f.seedMapa(a.ID, "Mapa A", models.StatusConcluido)
	f.seedMapa(b.ID, "Mapa B", models.StatusEmAndamento)

	view, err := f.dashboard.View(ctx, string(models.StatusConcluido))
	require.NoError(t, err)

	assert.Equal(t, int64(1), view.Stats.TotalProcessos)
	require.Len(t, view.ProcessosRecentes, 1)
	assert.Equal(t, a.ID, view.ProcessosRecentes[0].ProcessoID)

	// Per-status counts stay global even under a filter.
	assert.Equal(t, int64(1), view.Stats.StatusCounts[models.StatusEmAndamento])
}

func TestDashboardTodosMeansNoFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.seedProcesso("A", nil, nil)
	f.seedMapa(a.ID, "Mapa A", models.StatusConcluido)

	view, err := f.dashboard.View(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.Stats.TotalProcessos)
}

func TestDashboardRejectsUnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.dashboard.View(context.Background(), "Inventado")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
