package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sucupira/processmap/common/models"
)

func TestSearchEmptyQueryReturnsNoMatches(t *testing.T) {
	f := newFixture()

	resp, err := f.search.Search(context.Background(), "   ", "", nil)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Results)
}

func TestSearchDropsShortTokens(t *testing.T) {
	f := newFixture()
	f.seedProcesso("Compras", nil, nil)

	// "e" and "a" fall under the minimum token length; only "compras"
	// survives tokenization.
	resp, err := f.search.Search(context.Background(), "e a compras", "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Compras", resp.Results[0].Titulo)

	// A query reduced to nothing matches nothing.
	resp, err = f.search.Search(context.Background(), "e a", "", nil)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
}

func TestSearchRelevanceTiers(t *testing.T) {
	f := newFixture()
	f.seedProcesso("Compras", nil, nil)
	f.seedProcesso("Compras internas", nil, nil)
	f.seedProcesso("Gestão de compras", nil, nil)

	resp, err := f.search.Search(context.Background(), "compras", "", nil)
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)

	// Exact beats prefix beats substring.
	assert.Equal(t, "Compras", resp.Results[0].Titulo)
	assert.Equal(t, "Compras internas", resp.Results[1].Titulo)
	assert.Equal(t, "Gestão de compras", resp.Results[2].Titulo)
	assert.Greater(t, resp.Results[0].Score, resp.Results[1].Score)
	assert.Greater(t, resp.Results[1].Score, resp.Results[2].Score)
}

func TestSearchRequiresAllTokens(t *testing.T) {
	f := newFixture()
	f.seedProcesso("Compras internas", nil, nil)
	f.seedProcesso("Compras externas", nil, nil)

	resp, err := f.search.Search(context.Background(), "compras internas", "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Compras internas", resp.Results[0].Titulo)
}

func TestSearchAcrossKinds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.seedProcesso("Fiscal", nil, nil)
	f.seedMapa(p.ID, "Fiscal anual", models.StatusEmAndamento)
	require.NoError(t, f.areas.Create(ctx, nil, &models.Area{NomeArea: "Setor Fiscal", Sigla: "SF"}))
	require.NoError(t, f.documentos.Create(ctx, nil, &models.Documento{NomeDocumento: "Guia fiscal", Link: "http://x"}))

	resp, err := f.search.Search(ctx, "fiscal", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Total)

	kinds := make(map[string]bool)
	for _, r := range resp.Results {
		kinds[r.Kind] = true
	}
	assert.True(t, kinds[KindProcesso])
	assert.True(t, kinds[KindMapa])
	assert.True(t, kinds[KindArea])
	assert.True(t, kinds[KindDocumento])
}

func TestSearchKindFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.seedProcesso("Fiscal", nil, nil)
	f.seedMapa(p.ID, "Fiscal anual", models.StatusEmAndamento)

	resp, err := f.search.Search(ctx, "fiscal", "", []string{KindMapa})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, KindMapa, resp.Results[0].Kind)
}

func TestSearchSortByTitle(t *testing.T) {
	f := newFixture()
	f.seedProcesso("Zeladoria de compras", nil, nil)
	f.seedProcesso("Auditoria de compras", nil, nil)

	resp, err := f.search.Search(context.Background(), "compras", SortTitle, nil)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "Auditoria de compras", resp.Results[0].Titulo)
	assert.Equal(t, "Zeladoria de compras", resp.Results[1].Titulo)
}

func TestSearchSortByModifiedNullsLast(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := f.seedProcesso("Orçamento", nil, nil)
	f.seedMapa(p.ID, "Mapa orçamento", models.StatusEmAndamento)
	require.NoError(t, f.documentos.Create(ctx, nil, &models.Documento{NomeDocumento: "Planilha orçamento", Link: "http://x"}))

	resp, err := f.search.Search(ctx, "orçamento", SortModified, nil)
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)

	// The document has no timestamp and must sink to the end.
	assert.Equal(t, KindDocumento, resp.Results[len(resp.Results)-1].Kind)
	assert.NotNil(t, resp.Results[0].ModifiedAt)
}

func TestSearchMatchedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "coleta de cpf", LGPD: "cpf sensível",
	})
	require.NoError(t, err)

	resp, err := f.search.Search(ctx, "cpf", "", []string{KindMetadados})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.ElementsMatch(t, []string{"nome", "lgpd"}, resp.Results[0].MatchedFields)
}

func TestSearchByPayloadResolvesChain(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa de compras", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "dados do fornecedor",
		Dados: []string{"cnpj", "endereço"},
	})
	require.NoError(t, err)

	hits, err := f.search.SearchByPayload(ctx, "cnpj")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hit := hits[0]
	assert.Equal(t, m.ID, hit.MapaID)
	assert.Equal(t, "Mapa de compras", hit.MapaTitulo)
	require.NotNil(t, hit.ProcessoID)
	assert.Equal(t, p.ID, *hit.ProcessoID)
	assert.Equal(t, "Compras", hit.ProcessoTitulo)
}

func TestSearchByPayloadIgnoresPayloadWithoutFlagInUnifiedSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.seedProcesso("Compras", nil, nil)
	m := f.seedMapa(p.ID, "Mapa", models.StatusEmAndamento)

	_, err := f.metadata.Upsert(ctx, UpsertInput{
		IDMapa: m.ID, IDAtividade: "Task_1", Nome: "fornecedor",
		Dados: []string{"cnpj"},
	})
	require.NoError(t, err)

	// The unified search only sees declared fields, not the payload.
	resp, err := f.search.Search(ctx, "cnpj", "", nil)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
}

func TestSuggestDedupesCaseInsensitively(t *testing.T) {
	f := newFixture()
	f.seedProcesso("Compras", nil, nil)
	f.seedProcesso("COMPRAS", nil, nil)
	f.seedProcesso("Compras internas", nil, nil)

	got, err := f.search.Suggest(context.Background(), "compras")
	require.NoError(t, err)
	assert.Equal(t, []string{"Compras", "Compras internas"}, got)
}

func TestSuggestIgnoresSecondaryFieldMatches(t *testing.T) {
	f := newFixture()
	p := f.seedProcesso("Fluxo base", nil, nil)
	f.seedMapa(p.ID, "Fluxo de compras", models.StatusPendente)

	// The status column prefilters the row, but a suggestion must come
	// from the title itself.
	got, err := f.search.Suggest(context.Background(), "pendente")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.search.Suggest(context.Background(), "fluxo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fluxo base", "Fluxo de compras"}, got)
}

func TestSuggestEmptyQuery(t *testing.T) {
	f := newFixture()

	got, err := f.search.Suggest(context.Background(), " ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
