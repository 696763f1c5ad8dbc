package models

import "time"

// Processo is a documented business procedure; a node in the process tree.
// A process is a root when IDPai is nil. The parent relation must stay
// acyclic, and a process holds at most one of {parent, macro association}.
// Maps to: processos table
type Processo struct {
	ID int64 `db:"id" json:"id"`

	// Parent process; nil for roots
	IDPai *int64 `db:"id_pai" json:"id_pai,omitempty"`

	// Owning area tag (optional)
	IDArea *int64 `db:"id_area" json:"id_area,omitempty"`

	// Sibling ordering; nil sorts as 0, ties break on ascending id
	Ordem *int `db:"ordem" json:"ordem,omitempty"`

	Titulo string `db:"titulo" json:"titulo"`

	DataPublicacao *time.Time `db:"data_publicacao" json:"data_publicacao,omitempty"`
	DataCriacao    time.Time  `db:"data_criacao" json:"data_criacao"`
}

// ProcessoPatch carries a sparse update: only non-nil fields are applied.
type ProcessoPatch struct {
	IDPai          *int64     `json:"id_pai,omitempty"`
	IDArea         *int64     `json:"id_area,omitempty"`
	Ordem          *int       `json:"ordem,omitempty"`
	Titulo         *string    `json:"titulo,omitempty"`
	DataPublicacao *time.Time `json:"data_publicacao,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ProcessoPatch) IsEmpty() bool {
	return p.IDPai == nil && p.IDArea == nil && p.Ordem == nil &&
		p.Titulo == nil && p.DataPublicacao == nil
}
