package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/config"
	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
	"github.com/sucupira/processmap/common/repository"
)

// In-memory store fakes. They honor the same contracts as the pgx-backed
// repositories (NotFound sentinels, ordering, upsert-by-natural-key) so the
// engines can be exercised without a database.

func testLogger() *logger.Logger {
	return logger.New("error", "text")
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		MinTokenLength:  2,
		PerKindLimit:    50,
		SuggestLimit:    10,
		SubstringWeight: 0.5,
		PrefixWeight:    1.0,
		ExactWeight:     2.0,
		PrimaryBonus:    0.5,
	}
}

// patternHit mirrors the OR semantics of the ILIKE prefilter
func patternHit(value string, patterns []string) bool {
	v := strings.ToLower(value)
	for _, p := range patterns {
		needle := strings.ToLower(strings.Trim(p, "%"))
		if needle != "" && strings.Contains(v, needle) {
			return true
		}
	}
	return false
}

func ptrInt(v int) *int          { return &v }
func ptrInt64(v int64) *int64    { return &v }
func ptrString(v string) *string { return &v }

// txMarker stands in for a live transaction so the fakes can tell
// transactional calls from pool calls. No SQL ever runs against it.
type txMarker struct{}

func (txMarker) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (txMarker) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (txMarker) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

type fakeTx struct{}

func (f *fakeTx) InTx(ctx context.Context, fn func(q db.Querier) error) error {
	return fn(txMarker{})
}

func (f *fakeTx) InTreeTx(ctx context.Context, fn func(q db.Querier) error) error {
	return fn(txMarker{})
}

type fakeProcessoStore struct {
	rows   map[int64]*models.Processo
	nextID int64

	updatesOutsideTx int
}

func newFakeProcessoStore() *fakeProcessoStore {
	return &fakeProcessoStore{rows: make(map[int64]*models.Processo), nextID: 1}
}

func (f *fakeProcessoStore) Get(ctx context.Context, q db.Querier, id int64) (*models.Processo, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("processo", id)
	}
	return p, nil
}

func (f *fakeProcessoStore) Create(ctx context.Context, q db.Querier, p *models.Processo) error {
	p.ID = f.nextID
	f.nextID++
	p.DataCriacao = time.Now()
	f.rows[p.ID] = p
	return nil
}

func sortProcessos(out []*models.Processo) {
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := ordemOrZero(out[i].Ordem), ordemOrZero(out[j].Ordem)
		if oi != oj {
			return oi < oj
		}
		return out[i].ID < out[j].ID
	})
}

func (f *fakeProcessoStore) ListChildren(ctx context.Context, q db.Querier, parentID int64) ([]*models.Processo, error) {
	var out []*models.Processo
	for _, p := range f.rows {
		if p.IDPai != nil && *p.IDPai == parentID {
			out = append(out, p)
		}
	}
	sortProcessos(out)
	return out, nil
}

func (f *fakeProcessoStore) ListRoots(ctx context.Context, q db.Querier) ([]*models.Processo, error) {
	var out []*models.Processo
	for _, p := range f.rows {
		if p.IDPai == nil {
			out = append(out, p)
		}
	}
	sortProcessos(out)
	return out, nil
}

func (f *fakeProcessoStore) ListAll(ctx context.Context, q db.Querier) ([]*models.Processo, error) {
	var out []*models.Processo
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProcessoStore) Update(ctx context.Context, q db.Querier, id int64, patch models.ProcessoPatch) error {
	if q == nil {
		f.updatesOutsideTx++
	}
	p, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("processo", id)
	}
	if patch.IDPai != nil {
		p.IDPai = patch.IDPai
	}
	if patch.IDArea != nil {
		p.IDArea = patch.IDArea
	}
	if patch.Ordem != nil {
		p.Ordem = patch.Ordem
	}
	if patch.Titulo != nil {
		p.Titulo = *patch.Titulo
	}
	if patch.DataPublicacao != nil {
		p.DataPublicacao = patch.DataPublicacao
	}
	return nil
}

func (f *fakeProcessoStore) SetParent(ctx context.Context, q db.Querier, id int64, parentID *int64, ordem *int) error {
	p, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("processo", id)
	}
	p.IDPai = parentID
	p.Ordem = ordem
	return nil
}

func (f *fakeProcessoStore) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("processo", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeProcessoStore) SearchByTitle(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Processo, error) {
	all, _ := f.ListAll(ctx, q)
	var out []*models.Processo
	for _, p := range all {
		if patternHit(p.Titulo, patterns) {
			out = append(out, p)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeMacroStore struct {
	rows   map[int64]*models.MacroProcesso
	nextID int64
}

func newFakeMacroStore() *fakeMacroStore {
	return &fakeMacroStore{rows: make(map[int64]*models.MacroProcesso), nextID: 1}
}

func (f *fakeMacroStore) Get(ctx context.Context, q db.Querier, id int64) (*models.MacroProcesso, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("macro_processo", id)
	}
	return m, nil
}

func (f *fakeMacroStore) Create(ctx context.Context, q db.Querier, m *models.MacroProcesso) error {
	m.ID = f.nextID
	f.nextID++
	m.DataCriacao = time.Now()
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMacroStore) List(ctx context.Context, q db.Querier) ([]*models.MacroProcesso, error) {
	var out []*models.MacroProcesso
	for _, m := range f.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMacroStore) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("macro_processo", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMacroStore) SearchByTitle(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.MacroProcesso, error) {
	all, _ := f.List(ctx, q)
	var out []*models.MacroProcesso
	for _, m := range all {
		if patternHit(m.Titulo, patterns) {
			out = append(out, m)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeAssocStore struct {
	rows   map[int64]*models.Associacao
	nextID int64
}

func newFakeAssocStore() *fakeAssocStore {
	return &fakeAssocStore{rows: make(map[int64]*models.Associacao), nextID: 1}
}

func (f *fakeAssocStore) GetByProcesso(ctx context.Context, q db.Querier, processoID int64) (*models.Associacao, error) {
	for _, a := range f.rows {
		if a.ProcessoID == processoID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAssocStore) Upsert(ctx context.Context, q db.Querier, a *models.Associacao) error {
	for _, existing := range f.rows {
		if existing.ProcessoID == a.ProcessoID {
			existing.MacroProcessoID = a.MacroProcessoID
			existing.Ordem = a.Ordem
			a.ID = existing.ID
			return nil
		}
	}
	a.ID = f.nextID
	f.nextID++
	f.rows[a.ID] = a
	return nil
}

func (f *fakeAssocStore) DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) error {
	for id, a := range f.rows {
		if a.ProcessoID == processoID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeAssocStore) DeleteByMacro(ctx context.Context, q db.Querier, macroID int64) error {
	for id, a := range f.rows {
		if a.MacroProcessoID == macroID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeAssocStore) ListByMacro(ctx context.Context, q db.Querier, macroID int64) ([]*models.Associacao, error) {
	var out []*models.Associacao
	for _, a := range f.rows {
		if a.MacroProcessoID == macroID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAssocStore) ListAll(ctx context.Context, q db.Querier) ([]*models.Associacao, error) {
	var out []*models.Associacao
	for _, a := range f.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeMapaStore struct {
	rows      map[int64]*models.Mapa
	nextID    int64
	processos *fakeProcessoStore
}

func newFakeMapaStore(processos *fakeProcessoStore) *fakeMapaStore {
	return &fakeMapaStore{rows: make(map[int64]*models.Mapa), nextID: 1, processos: processos}
}

func (f *fakeMapaStore) Get(ctx context.Context, q db.Querier, id int64) (*models.Mapa, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("mapa", id)
	}
	return m, nil
}

func (f *fakeMapaStore) Create(ctx context.Context, q db.Querier, m *models.Mapa) error {
	m.ID = f.nextID
	f.nextID++
	now := time.Now()
	m.DataCriacao = now
	m.DataModificacao = now
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMapaStore) ListByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]*models.Mapa, error) {
	var out []*models.Mapa
	for _, m := range f.rows {
		if m.IDProc == processoID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMapaStore) ListAll(ctx context.Context, q db.Querier) ([]*models.Mapa, error) {
	var out []*models.Mapa
	for _, m := range f.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMapaStore) SaveXML(ctx context.Context, q db.Querier, id int64, xml string) error {
	m, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("mapa", id)
	}
	m.XML = xml
	m.DataModificacao = time.Now()
	return nil
}

func (f *fakeMapaStore) SetStatus(ctx context.Context, q db.Querier, id int64, status models.MapaStatus) error {
	m, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("mapa", id)
	}
	m.Status = status
	m.DataModificacao = time.Now()
	return nil
}

func (f *fakeMapaStore) SetProcesso(ctx context.Context, q db.Querier, id, processoID int64) error {
	m, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("mapa", id)
	}
	m.IDProc = processoID
	m.DataModificacao = time.Now()
	return nil
}

func (f *fakeMapaStore) SetTitulo(ctx context.Context, q db.Querier, id int64, titulo string) error {
	m, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("mapa", id)
	}
	m.Titulo = titulo
	m.DataModificacao = time.Now()
	return nil
}

func (f *fakeMapaStore) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("mapa", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMapaStore) DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]int64, error) {
	var deleted []int64
	for id, m := range f.rows {
		if m.IDProc == processoID {
			deleted = append(deleted, id)
			delete(f.rows, id)
		}
	}
	return deleted, nil
}

func (f *fakeMapaStore) SearchByText(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Mapa, error) {
	all, _ := f.ListAll(ctx, q)
	var out []*models.Mapa
	for _, m := range all {
		if patternHit(m.Titulo, patterns) || patternHit(string(m.Status), patterns) {
			out = append(out, m)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMapaStore) CountByStatus(ctx context.Context, q db.Querier) (map[models.MapaStatus]int64, error) {
	counts := make(map[models.MapaStatus]int64)
	for _, m := range f.rows {
		if _, ok := f.processos.rows[m.IDProc]; !ok {
			continue
		}
		counts[m.Status]++
	}
	return counts, nil
}

func (f *fakeMapaStore) CountWithStatus(ctx context.Context, q db.Querier, status models.MapaStatus) (int64, error) {
	var count int64
	for _, m := range f.rows {
		if _, ok := f.processos.rows[m.IDProc]; !ok {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeMapaStore) RecentByModification(ctx context.Context, q db.Querier, status models.MapaStatus, limit int) ([]*repository.ProcessoComStatus, error) {
	var out []*repository.ProcessoComStatus
	for _, m := range f.rows {
		p, ok := f.processos.rows[m.IDProc]
		if !ok {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, &repository.ProcessoComStatus{
			ProcessoID:      p.ID,
			Titulo:          p.Titulo,
			Status:          m.Status,
			DataModificacao: m.DataModificacao,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataModificacao.After(out[j].DataModificacao) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMetadadosStore struct {
	rows   map[int64]*models.Metadados
	nextID int64
}

func newFakeMetadadosStore() *fakeMetadadosStore {
	return &fakeMetadadosStore{rows: make(map[int64]*models.Metadados), nextID: 1}
}

func (f *fakeMetadadosStore) Get(ctx context.Context, q db.Querier, id int64) (*models.Metadados, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("metadados", id)
	}
	return m, nil
}

func (f *fakeMetadadosStore) UpsertByKey(ctx context.Context, q db.Querier, m *models.Metadados) error {
	for _, existing := range f.rows {
		if existing.IDMapa == m.IDMapa && existing.IDAtividade == m.IDAtividade && existing.Nome == m.Nome {
			existing.LGPD = m.LGPD
			existing.Dados = m.Dados
			m.ID = existing.ID
			return nil
		}
	}
	m.ID = f.nextID
	f.nextID++
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMetadadosStore) Update(ctx context.Context, q db.Querier, id int64, patch models.MetadadosPatch) error {
	m, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("metadados", id)
	}

	next := *m
	if patch.IDAtividade != nil {
		next.IDAtividade = *patch.IDAtividade
	}
	if patch.Nome != nil {
		next.Nome = *patch.Nome
	}
	if patch.LGPD != nil {
		next.LGPD = *patch.LGPD
	}
	if patch.Dados != nil {
		next.Dados = *patch.Dados
	}

	for _, other := range f.rows {
		if other.ID != id && other.IDMapa == next.IDMapa &&
			other.IDAtividade == next.IDAtividade && other.Nome == next.Nome {
			return fmt.Errorf("metadados natural key taken: %w", apperr.ErrConflict)
		}
	}

	*m = next
	return nil
}

func (f *fakeMetadadosStore) ListByKey(ctx context.Context, q db.Querier, idMapa int64, idAtividade string) ([]*models.Metadados, error) {
	var out []*models.Metadados
	for _, m := range f.rows {
		if m.IDMapa == idMapa && m.IDAtividade == idAtividade {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMetadadosStore) ListAll(ctx context.Context, q db.Querier) ([]*models.Metadados, error) {
	var out []*models.Metadados
	for _, m := range f.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMetadadosStore) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("metadados", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMetadadosStore) DeleteByMapas(ctx context.Context, q db.Querier, mapaIDs []int64) error {
	for id, m := range f.rows {
		for _, mapaID := range mapaIDs {
			if m.IDMapa == mapaID {
				delete(f.rows, id)
			}
		}
	}
	return nil
}

func (f *fakeMetadadosStore) Search(ctx context.Context, q db.Querier, patterns []string, limit int, includePayload bool) ([]*models.Metadados, error) {
	all, _ := f.ListAll(ctx, q)
	var out []*models.Metadados
	for _, m := range all {
		hit := patternHit(m.Nome, patterns) ||
			patternHit(m.LGPD, patterns) ||
			patternHit(m.IDAtividade, patterns)
		if includePayload && !hit {
			hit = patternHit(strings.Join(m.Dados, " "), patterns)
		}
		if hit {
			out = append(out, m)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeAreaStore struct {
	rows   map[int64]*models.Area
	nextID int64
}

func newFakeAreaStore() *fakeAreaStore {
	return &fakeAreaStore{rows: make(map[int64]*models.Area), nextID: 1}
}

func (f *fakeAreaStore) Get(ctx context.Context, q db.Querier, id int64) (*models.Area, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("area", id)
	}
	return a, nil
}

func (f *fakeAreaStore) Create(ctx context.Context, q db.Querier, a *models.Area) error {
	a.ID = f.nextID
	f.nextID++
	f.rows[a.ID] = a
	return nil
}

func (f *fakeAreaStore) List(ctx context.Context, q db.Querier) ([]*models.Area, error) {
	var out []*models.Area
	for _, a := range f.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAreaStore) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("area", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAreaStore) Search(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Area, error) {
	all, _ := f.List(ctx, q)
	var out []*models.Area
	for _, a := range all {
		if patternHit(a.NomeArea, patterns) || patternHit(a.Sigla, patterns) {
			out = append(out, a)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeDocumentoStore struct {
	rows   map[int64]*models.Documento
	nextID int64
}

func newFakeDocumentoStore() *fakeDocumentoStore {
	return &fakeDocumentoStore{rows: make(map[int64]*models.Documento), nextID: 1}
}

func (f *fakeDocumentoStore) Get(ctx context.Context, q db.Querier, id int64) (*models.Documento, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("documento", id)
	}
	return d, nil
}

func (f *fakeDocumentoStore) Create(ctx context.Context, q db.Querier, d *models.Documento) error {
	d.ID = f.nextID
	f.nextID++
	f.rows[d.ID] = d
	return nil
}

func (f *fakeDocumentoStore) ListByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]*models.Documento, error) {
	var out []*models.Documento
	for _, d := range f.rows {
		if d.IDProc != nil && *d.IDProc == processoID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDocumentoStore) Delete(ctx context.Context, q db.Querier, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("documento", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeDocumentoStore) DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) error {
	for id, d := range f.rows {
		if d.IDProc != nil && *d.IDProc == processoID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeDocumentoStore) Search(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Documento, error) {
	var ids []int64
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*models.Documento
	for _, id := range ids {
		d := f.rows[id]
		if patternHit(d.NomeDocumento, patterns) || patternHit(d.Link, patterns) {
			out = append(out, d)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeUsuarioStore struct {
	rows   map[int64]*models.Usuario
	nextID int64
}

func newFakeUsuarioStore() *fakeUsuarioStore {
	return &fakeUsuarioStore{rows: make(map[int64]*models.Usuario), nextID: 1}
}

func (f *fakeUsuarioStore) Create(ctx context.Context, q db.Querier, u *models.Usuario) error {
	u.ID = f.nextID
	f.nextID++
	f.rows[u.ID] = u
	return nil
}

func (f *fakeUsuarioStore) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Usuario, error) {
	for _, u := range f.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFoundKey("usuario", email)
}

func (f *fakeUsuarioStore) List(ctx context.Context, q db.Querier) ([]*models.Usuario, error) {
	var out []*models.Usuario
	for _, u := range f.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsuarioStore) EmailExists(ctx context.Context, q db.Querier, email string) (bool, error) {
	for _, u := range f.rows {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fixture wires a full set of fakes and the services under test
type fixture struct {
	tx         *fakeTx
	processos  *fakeProcessoStore
	macros     *fakeMacroStore
	assocs     *fakeAssocStore
	mapas      *fakeMapaStore
	metadados  *fakeMetadadosStore
	areas      *fakeAreaStore
	documentos *fakeDocumentoStore
	usuarios   *fakeUsuarioStore

	tree      *TreeService
	diagrams  *DiagramService
	metadata  *MetadataService
	search    *SearchService
	dashboard *DashboardService
}

func newFixture() *fixture {
	log := testLogger()
	f := &fixture{
		tx:         &fakeTx{},
		processos:  newFakeProcessoStore(),
		macros:     newFakeMacroStore(),
		assocs:     newFakeAssocStore(),
		metadados:  newFakeMetadadosStore(),
		areas:      newFakeAreaStore(),
		documentos: newFakeDocumentoStore(),
		usuarios:   newFakeUsuarioStore(),
	}
	f.mapas = newFakeMapaStore(f.processos)

	f.tree = NewTreeService(f.tx, f.processos, f.macros, f.assocs, f.mapas, f.metadados, f.documentos, nil, 0, log)
	f.diagrams = NewDiagramService(f.tx, f.processos, f.mapas, f.metadados, nil, log)
	f.metadata = NewMetadataService(f.mapas, f.metadados, log)
	f.search = NewSearchService(testSearchConfig(), f.processos, f.macros, f.mapas, f.metadados, f.areas, f.documentos, nil, 0, log)
	f.dashboard = NewDashboardService(f.mapas, nil, 0, log)
	return f
}

// seedProcesso inserts a process directly into the fake store
func (f *fixture) seedProcesso(titulo string, idPai *int64, ordem *int) *models.Processo {
	p := &models.Processo{Titulo: titulo, IDPai: idPai, Ordem: ordem}
	if err := f.processos.Create(context.Background(), nil, p); err != nil {
		panic(err)
	}
	return p
}

func (f *fixture) seedMapa(processoID int64, titulo string, status models.MapaStatus) *models.Mapa {
	m := &models.Mapa{IDProc: processoID, Titulo: titulo, Status: status, XML: "<xml/>"}
	if err := f.mapas.Create(context.Background(), nil, m); err != nil {
		panic(err)
	}
	return m
}
