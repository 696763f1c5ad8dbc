package models

// Metadados is a privacy-tagged annotation attached to an activity of a
// diagram. The natural key is (id_mapa, id_atividade, nome); the payload is
// an ordered list of strings whose syntax the core does not interpret.
// Maps to: metadados table
type Metadados struct {
	ID          int64    `db:"id" json:"id"`
	IDMapa      int64    `db:"id_mapa" json:"id_mapa"`
	IDAtividade string   `db:"id_atividade" json:"id_atividade"`
	Nome        string   `db:"nome" json:"nome"`
	LGPD        string   `db:"lgpd" json:"lgpd"`
	Dados       []string `db:"dados" json:"dados"`
}

// MetadadosPatch carries a sparse update by surrogate id
type MetadadosPatch struct {
	IDAtividade *string   `json:"id_atividade,omitempty"`
	Nome        *string   `json:"nome,omitempty"`
	LGPD        *string   `json:"lgpd,omitempty"`
	Dados       *[]string `json:"dados,omitempty"`
}
