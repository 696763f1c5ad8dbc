package models

import "time"

// MacroProcesso is a top-level grouping of root processes.
// Maps to: macro_processos table
type MacroProcesso struct {
	ID             int64      `db:"id" json:"id"`
	Titulo         string     `db:"titulo" json:"titulo"`
	DataPublicacao *time.Time `db:"data_publicacao" json:"data_publicacao,omitempty"`
	DataCriacao    time.Time  `db:"data_criacao" json:"data_criacao"`
}

// Associacao links a macro-process to a root process. Only processes with
// a nil parent may be associated, and a process has at most one association.
// Maps to: macro_processo_processo table
type Associacao struct {
	ID              int64 `db:"id" json:"id"`
	MacroProcessoID int64 `db:"macro_processo_id" json:"macro_processo_id"`
	ProcessoID      int64 `db:"processo_id" json:"processo_id"`
	Ordem           *int  `db:"ordem" json:"ordem,omitempty"`
}
