package migration

import (
	"database/sql"
	"fmt"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
)

// Migration representa uma migração de schema versionada
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator aplica migrações pendentes no banco
type Migrator struct {
	db *sql.DB
}

// NewMigrator cria um novo migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Run aplica todas as migrações pendentes em ordem de versão
func (m *Migrator) Run() error {
	log := logger.Global()

	if err := m.ensureMigrationsTable(); err != nil {
		return err
	}

	current, err := m.currentVersion()
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		if mig.Version <= current {
			continue
		}

		log.Info().
			Int("version", mig.Version).
			Str("name", mig.Name).
			Msg("Aplicando migração")

		tx, err := m.db.Begin()
		if err != nil {
			return fmt.Errorf("iniciar transação: %w", err)
		}

		if _, err := tx.Exec(mig.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migração %d (%s): %w", mig.Version, mig.Name, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			mig.Version, mig.Name,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("registrar migração %d: %w", mig.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit da migração %d: %w", mig.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable garante a tabela de controle de versões
func (m *Migrator) ensureMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("criar tabela de migrações: %w", err)
	}
	return nil
}

// currentVersion retorna a maior versão já aplicada (0 se nenhuma)
func (m *Migrator) currentVersion() (int, error) {
	var version sql.NullInt64
	err := m.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("consultar versão atual: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
