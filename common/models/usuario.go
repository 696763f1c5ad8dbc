package models

// Usuario is an authenticated user of the API.
// Maps to: usuarios table
type Usuario struct {
	ID        int64  `db:"id" json:"id"`
	Nome      string `db:"nome" json:"nome"`
	Email     string `db:"email" json:"email"`
	SenhaHash string `db:"senha_hash" json:"-"`
}
