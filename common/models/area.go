package models

// Area is an organizational unit processes can be tagged with.
// Maps to: areas table
type Area struct {
	ID       int64  `db:"id" json:"id"`
	NomeArea string `db:"nome_area" json:"nome_area"`
	Sigla    string `db:"sigla" json:"sigla"`
	Tipo     string `db:"tipo" json:"tipo"`
}
