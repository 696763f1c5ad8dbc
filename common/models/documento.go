package models

// Documento is a reference document linked to a process.
// Maps to: documentos table
type Documento struct {
	ID            int64  `db:"id" json:"id"`
	IDProc        *int64 `db:"id_proc" json:"id_proc,omitempty"`
	NomeDocumento string `db:"nome_documento" json:"nome_documento"`
	Link          string `db:"link" json:"link"`
}
