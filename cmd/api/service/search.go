package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sucupira/processmap/common/cache"
	"github.com/sucupira/processmap/common/config"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
)

// Entity kinds a search can return
const (
	KindProcesso      = "processo"
	KindMacroProcesso = "macro_processo"
	KindMapa          = "mapa"
	KindMetadados     = "metadados"
	KindArea          = "area"
	KindDocumento     = "documento"
)

// Sort orders accepted by Search
const (
	SortRelevance = "relevance"
	SortTitle     = "title"
	SortModified  = "modified"
)

// SearchResult is one unified hit across entity kinds
type SearchResult struct {
	Kind          string     `json:"kind"`
	ID            int64      `json:"id"`
	Titulo        string     `json:"titulo"`
	Subtitulo     string     `json:"subtitulo,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
	Score         float64    `json:"score"`
	MatchedFields []string   `json:"matched_fields"`
}

// SearchResponse wraps the hit list; an empty Results is a valid
// no-matches answer, not an error.
type SearchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []*SearchResult `json:"results"`
}

// PayloadHit is a metadata match resolved back to its diagram and process
type PayloadHit struct {
	Metadados      *models.Metadados `json:"metadados"`
	MapaID         int64             `json:"mapa_id"`
	MapaTitulo     string            `json:"mapa_titulo"`
	ProcessoID     *int64            `json:"processo_id,omitempty"`
	ProcessoTitulo string            `json:"processo_titulo,omitempty"`
	Score          float64           `json:"score"`
}

// SearchService ranks entities of every kind against a free-text query.
// The database does a broad ILIKE prefilter; the fine-grained relevance
// scoring runs in Go where the weights are cheap to tune.
type SearchService struct {
	cfg        config.SearchConfig
	processos  ProcessoStore
	macros     MacroProcessoStore
	mapas      MapaStore
	metadados  MetadadosStore
	areas      AreaStore
	documentos DocumentoStore
	cache      cache.Cache
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	cfg config.SearchConfig,
	processos ProcessoStore,
	macros MacroProcessoStore,
	mapas MapaStore,
	metadados MetadadosStore,
	areas AreaStore,
	documentos DocumentoStore,
	viewCache cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *SearchService {
	return &SearchService{
		cfg:        cfg,
		processos:  processos,
		macros:     macros,
		mapas:      mapas,
		metadados:  metadados,
		areas:      areas,
		documentos: documentos,
		cache:      viewCache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// tokenize lowercases the query, splits on whitespace and drops tokens
// shorter than the configured minimum. Duplicates are collapsed so a
// repeated word does not double-count.
func (s *SearchService) tokenize(query string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, raw := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(raw) < s.cfg.MinTokenLength {
			continue
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		tokens = append(tokens, raw)
	}
	return tokens
}

func likePatterns(tokens []string) []string {
	patterns := make([]string, len(tokens))
	for i, t := range tokens {
		patterns[i] = "%" + t + "%"
	}
	return patterns
}

// containsAllTokens reports whether every token is a substring of the
// already-lowercased value
func containsAllTokens(value string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(value, tok) {
			return false
		}
	}
	return true
}

// searchField is one scorable field of a candidate row
type searchField struct {
	name    string
	value   string
	primary bool
}

// scoreFields ranks a candidate against the token set. Every token must
// match at least one field (AND semantics); each (token, field) pair
// contributes its strongest tier plus the primary bonus.
func (s *SearchService) scoreFields(tokens []string, fields []searchField) (float64, []string, bool) {
	var score float64
	matched := make(map[string]bool)

	for _, token := range tokens {
		tokenHit := false
		for _, f := range fields {
			value := strings.ToLower(f.value)
			if value == "" || !strings.Contains(value, token) {
				continue
			}

			switch {
			case value == token:
				score += s.cfg.ExactWeight
			case strings.HasPrefix(value, token):
				score += s.cfg.PrefixWeight
			default:
				score += s.cfg.SubstringWeight
			}
			if f.primary {
				score += s.cfg.PrimaryBonus
			}

			matched[f.name] = true
			tokenHit = true
		}
		if !tokenHit {
			return 0, nil, false
		}
	}

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)
	return score, names, true
}

// Search runs the unified multi-entity query. Kinds narrows the entity
// set when non-empty; order is one of relevance (default), title or
// modified.
func (s *SearchService) Search(ctx context.Context, query, order string, kinds []string) (*SearchResponse, error) {
	tokens := s.tokenize(query)
	resp := &SearchResponse{Query: query, Results: []*SearchResult{}}
	if len(tokens) == 0 {
		return resp, nil
	}

	patterns := likePatterns(tokens)
	wanted := kindSet(kinds)

	collectors := []struct {
		kind    string
		collect func(context.Context, []string) ([]*SearchResult, error)
	}{
		{KindProcesso, func(ctx context.Context, p []string) ([]*SearchResult, error) { return s.collectProcessos(ctx, p, tokens) }},
		{KindMacroProcesso, func(ctx context.Context, p []string) ([]*SearchResult, error) { return s.collectMacros(ctx, p, tokens) }},
		{KindMapa, func(ctx context.Context, p []string) ([]*SearchResult, error) { return s.collectMapas(ctx, p, tokens) }},
		{KindMetadados, func(ctx context.Context, p []string) ([]*SearchResult, error) { return s.collectMetadados(ctx, p, tokens) }},
		{KindArea, func(ctx context.Context, p []string) ([]*SearchResult, error) { return s.collectAreas(ctx, p, tokens) }},
		{KindDocumento, func(ctx context.Context, p []string) ([]*SearchResult, error) { return s.collectDocumentos(ctx, p, tokens) }},
	}

	for _, c := range collectors {
		if wanted != nil && !wanted[c.kind] {
			continue
		}
		hits, err := c.collect(ctx, patterns)
		if err != nil {
			return nil, err
		}
		resp.Results = append(resp.Results, hits...)
	}

	sortResults(resp.Results, order)
	resp.Total = len(resp.Results)
	return resp, nil
}

func kindSet(kinds []string) map[string]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[strings.TrimSpace(strings.ToLower(k))] = true
	}
	return set
}

func sortResults(results []*SearchResult, order string) {
	switch order {
	case SortTitle:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Titulo) < strings.ToLower(results[j].Titulo)
		})
	case SortModified:
		// Most recent first; rows without a timestamp sink to the end.
		sort.SliceStable(results, func(i, j int) bool {
			mi, mj := results[i].ModifiedAt, results[j].ModifiedAt
			switch {
			case mi == nil && mj == nil:
				return false
			case mi == nil:
				return false
			case mj == nil:
				return true
			}
			return mi.After(*mj)
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return strings.ToLower(results[i].Titulo) < strings.ToLower(results[j].Titulo)
		})
	}
}

func (s *SearchService) collectProcessos(ctx context.Context, patterns, tokens []string) ([]*SearchResult, error) {
	rows, err := s.processos.SearchByTitle(ctx, nil, patterns, s.cfg.PerKindLimit)
	if err != nil {
		return nil, err
	}
	var hits []*SearchResult
	for _, p := range rows {
		fields := []searchField{{name: "titulo", value: p.Titulo, primary: true}}
		score, matchedFields, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}
		criacao := p.DataCriacao
		hits = append(hits, &SearchResult{
			Kind:          KindProcesso,
			ID:            p.ID,
			Titulo:        p.Titulo,
			ModifiedAt:    &criacao,
			Score:         score,
			MatchedFields: matchedFields,
		})
	}
	return hits, nil
}

func (s *SearchService) collectMacros(ctx context.Context, patterns, tokens []string) ([]*SearchResult, error) {
	rows, err := s.macros.SearchByTitle(ctx, nil, patterns, s.cfg.PerKindLimit)
	if err != nil {
		return nil, err
	}
	var hits []*SearchResult
	for _, m := range rows {
		fields := []searchField{{name: "titulo", value: m.Titulo, primary: true}}
		score, matchedFields, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}
		criacao := m.DataCriacao
		hits = append(hits, &SearchResult{
			Kind:          KindMacroProcesso,
			ID:            m.ID,
			Titulo:        m.Titulo,
			ModifiedAt:    &criacao,
			Score:         score,
			MatchedFields: matchedFields,
		})
	}
	return hits, nil
}

func (s *SearchService) collectMapas(ctx context.Context, patterns, tokens []string) ([]*SearchResult, error) {
	rows, err := s.mapas.SearchByText(ctx, nil, patterns, s.cfg.PerKindLimit)
	if err != nil {
		return nil, err
	}
	var hits []*SearchResult
	for _, m := range rows {
		fields := []searchField{
			{name: "titulo", value: m.Titulo, primary: true},
			{name: "status", value: string(m.Status)},
		}
		score, matchedFields, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}
		modificacao := m.DataModificacao
		hits = append(hits, &SearchResult{
			Kind:          KindMapa,
			ID:            m.ID,
			Titulo:        m.Titulo,
			Subtitulo:     string(m.Status),
			ModifiedAt:    &modificacao,
			Score:         score,
			MatchedFields: matchedFields,
		})
	}
	return hits, nil
}

func (s *SearchService) collectMetadados(ctx context.Context, patterns, tokens []string) ([]*SearchResult, error) {
	rows, err := s.metadados.Search(ctx, nil, patterns, s.cfg.PerKindLimit, false)
	if err != nil {
		return nil, err
	}
	var hits []*SearchResult
	for _, m := range rows {
		fields := []searchField{
			{name: "nome", value: m.Nome, primary: true},
			{name: "lgpd", value: m.LGPD},
			{name: "id_atividade", value: m.IDAtividade},
		}
		score, matchedFields, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}
		hits = append(hits, &SearchResult{
			Kind:          KindMetadados,
			ID:            m.ID,
			Titulo:        m.Nome,
			Subtitulo:     m.IDAtividade,
			Tags:          []string{m.LGPD},
			Score:         score,
			MatchedFields: matchedFields,
		})
	}
	return hits, nil
}

func (s *SearchService) collectAreas(ctx context.Context, patterns, tokens []string) ([]*SearchResult, error) {
	rows, err := s.areas.Search(ctx, nil, patterns, s.cfg.PerKindLimit)
	if err != nil {
		return nil, err
	}
	var hits []*SearchResult
	for _, a := range rows {
		fields := []searchField{
			{name: "nome_area", value: a.NomeArea, primary: true},
			{name: "sigla", value: a.Sigla},
		}
		score, matchedFields, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}
		hits = append(hits, &SearchResult{
			Kind:          KindArea,
			ID:            a.ID,
			Titulo:        a.NomeArea,
			Subtitulo:     a.Sigla,
			Tags:          []string{a.Tipo},
			Score:         score,
			MatchedFields: matchedFields,
		})
	}
	return hits, nil
}

func (s *SearchService) collectDocumentos(ctx context.Context, patterns, tokens []string) ([]*SearchResult, error) {
	rows, err := s.documentos.Search(ctx, nil, patterns, s.cfg.PerKindLimit)
	if err != nil {
		return nil, err
	}
	var hits []*SearchResult
	for _, d := range rows {
		fields := []searchField{
			{name: "nome_documento", value: d.NomeDocumento, primary: true},
			{name: "link", value: d.Link},
		}
		score, matchedFields, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}
		hits = append(hits, &SearchResult{
			Kind:          KindDocumento,
			ID:            d.ID,
			Titulo:        d.NomeDocumento,
			Subtitulo:     d.Link,
			Score:         score,
			MatchedFields: matchedFields,
		})
	}
	return hits, nil
}

// SearchByPayload matches metadata records including their serialized
// payload, then walks each hit back to its diagram and the diagram's
// process so the caller can jump straight to the right canvas.
func (s *SearchService) SearchByPayload(ctx context.Context, query string) ([]*PayloadHit, error) {
	tokens := s.tokenize(query)
	if len(tokens) == 0 {
		return []*PayloadHit{}, nil
	}

	rows, err := s.metadados.Search(ctx, nil, likePatterns(tokens), s.cfg.PerKindLimit, true)
	if err != nil {
		return nil, err
	}

	hits := []*PayloadHit{}
	for _, m := range rows {
		fields := []searchField{
			{name: "nome", value: m.Nome, primary: true},
			{name: "lgpd", value: m.LGPD},
			{name: "id_atividade", value: m.IDAtividade},
			{name: "dados", value: strings.Join(m.Dados, " ")},
		}
		score, _, ok := s.scoreFields(tokens, fields)
		if !ok {
			continue
		}

		hit := &PayloadHit{Metadados: m, MapaID: m.IDMapa, Score: score}

		// The diagram or its process may have been deleted underneath a
		// stale metadata row; the hit still stands on its own.
		if mapa, err := s.mapas.Get(ctx, nil, m.IDMapa); err == nil {
			hit.MapaTitulo = mapa.Titulo
			if p, err := s.processos.Get(ctx, nil, mapa.IDProc); err == nil {
				hit.ProcessoID = &p.ID
				hit.ProcessoTitulo = p.Titulo
			}
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

// Suggest returns up to SuggestLimit primary-field values matching the
// query, deduplicated case-insensitively. No scoring; this backs the
// type-ahead box and is cached briefly.
func (s *SearchService) Suggest(ctx context.Context, query string) ([]string, error) {
	tokens := s.tokenize(query)
	if len(tokens) == 0 {
		return []string{}, nil
	}

	cacheKey := "suggest:" + strings.Join(tokens, " ")
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var cached []string
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	patterns := likePatterns(tokens)
	limit := s.cfg.SuggestLimit

	var values []string
	if rows, err := s.processos.SearchByTitle(ctx, nil, patterns, limit); err != nil {
		return nil, err
	} else {
		for _, p := range rows {
			values = append(values, p.Titulo)
		}
	}
	if rows, err := s.macros.SearchByTitle(ctx, nil, patterns, limit); err != nil {
		return nil, err
	} else {
		for _, m := range rows {
			values = append(values, m.Titulo)
		}
	}
	if rows, err := s.mapas.SearchByText(ctx, nil, patterns, limit); err != nil {
		return nil, err
	} else {
		for _, m := range rows {
			values = append(values, m.Titulo)
		}
	}
	if rows, err := s.metadados.Search(ctx, nil, patterns, limit, false); err != nil {
		return nil, err
	} else {
		for _, m := range rows {
			values = append(values, m.Nome)
		}
	}
	if rows, err := s.areas.Search(ctx, nil, patterns, limit); err != nil {
		return nil, err
	} else {
		for _, a := range rows {
			values = append(values, a.NomeArea)
		}
	}
	if rows, err := s.documentos.Search(ctx, nil, patterns, limit); err != nil {
		return nil, err
	} else {
		for _, d := range rows {
			values = append(values, d.NomeDocumento)
		}
	}

	// The prefilters also hit secondary columns (status, sigla, link), so a
	// candidate only suggests when its primary value itself matches.
	seen := make(map[string]bool)
	suggestions := []string{}
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		if !containsAllTokens(key, tokens) {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, v)
		if len(suggestions) >= limit {
			break
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(suggestions); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL); err != nil {
				s.log.Warn("suggest cache write failed", "error", err)
			}
		}
	}
	return suggestions, nil
}
