package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/cache"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
	"github.com/sucupira/processmap/common/repository"
)

const recentLimit = 10

// DashboardStats is the aggregate block of the dashboard payload
type DashboardStats struct {
	TotalProcessos int64                       `json:"total_processos"`
	StatusCounts   map[models.MapaStatus]int64 `json:"status_counts"`
}

// DashboardView is the public dashboard payload: filtered totals, global
// per-status counts and the ten most recently touched processes.
type DashboardView struct {
	Stats             DashboardStats                  `json:"stats"`
	ProcessosRecentes []*repository.ProcessoComStatus `json:"processos_recentes"`
}

// DashboardService aggregates the process/diagram join for the landing page
type DashboardService struct {
	mapas    MapaStore
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(mapas MapaStore, viewCache cache.Cache, cacheTTL time.Duration, log *logger.Logger) *DashboardService {
	return &DashboardService{mapas: mapas, cache: viewCache, cacheTTL: cacheTTL, log: log}
}

// View builds the dashboard. statusFilter narrows the total and the recent
// list when non-empty; the per-status counts are always global, matching
// what the front end renders.
func (s *DashboardService) View(ctx context.Context, statusFilter string) (*DashboardView, error) {
	status := models.MapaStatus(statusFilter)
	if statusFilter == "todos" {
		status = ""
	}
	if status != "" && !models.ValidMapaStatus(status) {
		return nil, apperr.InvalidArgument("status %q is not valid", statusFilter)
	}

	cacheKey := "dashboard:" + string(status)
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var view DashboardView
			if err := json.Unmarshal(raw, &view); err == nil {
				return &view, nil
			}
		}
	}

	total, err := s.mapas.CountWithStatus(ctx, nil, status)
	if err != nil {
		return nil, err
	}
	counts, err := s.mapas.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.mapas.RecentByModification(ctx, nil, status, recentLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*repository.ProcessoComStatus{}
	}

	view := &DashboardView{
		Stats: DashboardStats{
			TotalProcessos: total,
			StatusCounts:   counts,
		},
		ProcessosRecentes: recent,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(view); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL); err != nil {
				s.log.Warn("dashboard cache write failed", "error", err)
			}
		}
	}
	return view, nil
}
