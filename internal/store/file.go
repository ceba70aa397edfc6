package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
)

// FileStore persiste cada chave como um arquivo JSON em DATA_DIR.
// A escrita usa arquivo temporário + rename para não deixar blob truncado.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore cria um store baseado em arquivos no diretório informado
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("criar diretório de dados: %w", err)
	}

	logger.Global().Info().Str("dir", dir).Msg("FileStore inicializado")
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get lê o blob da chave; found=false quando o arquivo não existe
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ler %s: %w", key, err)
	}
	return data, true, nil
}

// Set grava o blob da chave de forma síncrona
func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+"_*.tmp")
	if err != nil {
		return fmt.Errorf("criar arquivo temporário: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("escrever %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("fechar %s: %w", key, err)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renomear %s: %w", key, err)
	}
	return nil
}

// Close não tem recursos a liberar no backend de arquivos
func (s *FileStore) Close() error {
	return nil
}
