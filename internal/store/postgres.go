package store

import (
	"database/sql"
	"fmt"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
)

// PostgresStore persiste os blobs em uma tabela chave-valor única (zen_kv).
// O schema é garantido pelo pacote migration na inicialização.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore cria um store sobre a conexão informada
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get lê o blob da chave; found=false quando a linha não existe
func (s *PostgresStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM zen_kv WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ler %s: %w", key, err)
	}
	return value, true, nil
}

// Set grava o blob da chave via upsert
func (s *PostgresStore) Set(key string, value []byte) error {
	query := `
		INSERT INTO zen_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`

	if _, err := s.db.Exec(query, key, value); err != nil {
		logger.Global().Error().Err(err).Str("key", key).Msg("Erro ao gravar blob no PostgreSQL")
		return fmt.Errorf("gravar %s: %w", key, err)
	}
	return nil
}

// Close fecha a conexão com o banco
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
