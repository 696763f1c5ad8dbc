package db

import (
	"context"
	"fmt"
)

// Schema statements, applied in order. Idempotent so the service can run
// them on every startup, the same way the original system created its
// tables at boot.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id          BIGSERIAL PRIMARY KEY,
		nome        VARCHAR(100) NOT NULL,
		email       VARCHAR(100) NOT NULL UNIQUE,
		senha_hash  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS areas (
		id        BIGSERIAL PRIMARY KEY,
		nome_area TEXT NOT NULL,
		sigla     TEXT,
		tipo      TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS processos (
		id              BIGSERIAL PRIMARY KEY,
		id_pai          BIGINT REFERENCES processos(id),
		id_area         BIGINT REFERENCES areas(id),
		ordem           INT,
		titulo          VARCHAR(200) NOT NULL,
		data_publicacao DATE,
		data_criacao    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_processos_id_pai ON processos(id_pai)`,

	`CREATE TABLE IF NOT EXISTS macro_processos (
		id              BIGSERIAL PRIMARY KEY,
		titulo          VARCHAR(200) NOT NULL,
		data_publicacao DATE,
		data_criacao    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// One association per process at any time.
	`CREATE TABLE IF NOT EXISTS macro_processo_processo (
		id                BIGSERIAL PRIMARY KEY,
		macro_processo_id BIGINT NOT NULL REFERENCES macro_processos(id),
		processo_id       BIGINT NOT NULL REFERENCES processos(id) UNIQUE,
		ordem             INT
	)`,

	`CREATE TABLE IF NOT EXISTS mapas (
		id               BIGSERIAL PRIMARY KEY,
		id_proc          BIGINT NOT NULL REFERENCES processos(id),
		titulo           VARCHAR(200) NOT NULL,
		status           VARCHAR(50) NOT NULL DEFAULT 'Em andamento',
		xml              TEXT NOT NULL,
		data_criacao     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		data_modificacao TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_mapas_id_proc ON mapas(id_proc)`,

	// Metadata is keyed to a diagram (mapa), not a process. The unique
	// constraint backs the application-level upsert so concurrent upserts
	// on the same natural key cannot produce duplicate rows.
	`CREATE TABLE IF NOT EXISTS metadados (
		id           BIGSERIAL PRIMARY KEY,
		id_mapa      BIGINT NOT NULL REFERENCES mapas(id),
		id_atividade VARCHAR(100) NOT NULL,
		nome         VARCHAR(100) NOT NULL,
		lgpd         VARCHAR(100),
		dados        JSONB NOT NULL DEFAULT '[]',
		CONSTRAINT metadados_natural_key UNIQUE (id_mapa, id_atividade, nome)
	)`,

	`CREATE TABLE IF NOT EXISTS documentos (
		id             BIGSERIAL PRIMARY KEY,
		id_proc        BIGINT REFERENCES processos(id),
		nome_documento TEXT NOT NULL,
		link           TEXT
	)`,
}

// Migrate applies the schema. Safe to run repeatedly.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	db.log.Info("database schema up to date", "statements", len(migrations))
	return nil
}
