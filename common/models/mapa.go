package models

import "time"

// MapaStatus is the lifecycle status of a diagram
type MapaStatus string

const (
	StatusEmAndamento MapaStatus = "Em andamento"
	StatusConcluido   MapaStatus = "Concluído"
	StatusPendente    MapaStatus = "Pendente"
)

// ValidMapaStatus reports whether s is one of the accepted statuses
func ValidMapaStatus(s MapaStatus) bool {
	switch s {
	case StatusEmAndamento, StatusConcluido, StatusPendente:
		return true
	}
	return false
}

// Mapa is the diagram owned by a process. The XML body is opaque to the
// core; DataModificacao is bumped on every content or status change.
// Maps to: mapas table
type Mapa struct {
	ID     int64      `db:"id" json:"id"`
	IDProc int64      `db:"id_proc" json:"id_proc"`
	Titulo string     `db:"titulo" json:"titulo"`
	Status MapaStatus `db:"status" json:"status"`
	XML    string     `db:"xml" json:"xml"`

	DataCriacao     time.Time `db:"data_criacao" json:"data_criacao"`
	DataModificacao time.Time `db:"data_modificacao" json:"data_modificacao"`
}

// MapaPatch carries a sparse update for a diagram
type MapaPatch struct {
	Titulo *string     `json:"titulo,omitempty"`
	Status *MapaStatus `json:"status,omitempty"`
	XML    *string     `json:"xml,omitempty"`
}
