// Package csvstore implementa o armazenamento acumulado de cada dataset: um arquivo CSV
// plano espelhado em memória
package csvstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const backupTimeFormat = "20060102T150405"

// Store guarda as linhas acumuladas de um dataset.
// Escritas são serializadas pelo lock; leitores recebem snapshots imutáveis.
type Store struct {
	mu      sync.RWMutex
	dataset domain.Dataset
	path    string
	policy  domain.SchemaPolicy
	table   *domain.Table
}

// Open carrega o arquivo do dataset, criando-o apenas com as colunas obrigatórias quando não existe
func Open(dir string, dataset domain.Dataset, policy domain.SchemaPolicy) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "erro ao criar diretório de dados %s", dir)
	}

	if policy == "" {
		policy = domain.SchemaPolicyUnion
	}

	s := &Store{
		dataset: dataset,
		path:    filepath.Join(dir, dataset.FileName),
		policy:  policy,
	}

	info, err := os.Stat(s.path)
	switch {
	case os.IsNotExist(err) || (err == nil && info.Size() == 0):
		if err := writeFileAtomic(s.path, domain.NewTable(dataset.RequiredColumns)); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"dataset": dataset.Name,
			"path":    s.path,
		}).Info("Arquivo acumulado criado vazio")
	case err != nil:
		return nil, errors.Wrapf(err, "erro ao acessar %s", s.path)
	}

	table, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	s.table = table

	logrus.WithFields(logrus.Fields{
		"dataset": dataset.Name,
		"rows":    table.Len(),
		"columns": len(table.Columns),
	}).Info("Dataset carregado")

	return s, nil
}

func (s *Store) Dataset() domain.Dataset {
	return s.dataset
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot retorna a tabela atual. A tabela retornada nunca é alterada pelo store.
func (s *Store) Snapshot() *domain.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// CheckSchema valida o lote contra o acumulado atual sem gravar nada
func (s *Store) CheckSchema(batch *domain.Table) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return CheckSchema(s.table, batch, s.policy)
}

// Append relê o arquivo persistido, concatena o lote, regrava o arquivo inteiro e
// substitui a tabela em memória. Em caso de erro nada é alterado.
func (s *Store) Append(batch *domain.Table) (*domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	merged, err := Merge(current, batch, s.policy)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(s.path, merged); err != nil {
		return nil, err
	}

	s.table = merged
	return merged, nil
}

// Reload substitui a tabela em memória pelo conteúdo do arquivo quando os dois divergem.
// A comparação é feita célula a célula, edições externas que mantêm o número de linhas também são detectadas.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, err := readFile(s.path)
	if err != nil {
		return false, err
	}

	if sameTable(persisted, s.table) {
		return false, nil
	}

	s.table = persisted
	return true, nil
}

// Backup copia o arquivo acumulado para dir e retorna o caminho da cópia
func (s *Store) Backup(dir string, now time.Time) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "erro ao criar diretório de backup %s", dir)
	}

	src, err := os.Open(s.path)
	if err != nil {
		return "", errors.Wrapf(err, "erro ao abrir %s", s.path)
	}
	defer src.Close()

	target := filepath.Join(dir, fmt.Sprintf("%s-%s.csv", s.dataset.Name, now.Format(backupTimeFormat)))
	dst, err := os.Create(target)
	if err != nil {
		return "", errors.Wrapf(err, "erro ao criar %s", target)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return "", errors.Wrap(err, "erro ao copiar arquivo acumulado")
	}

	if err := dst.Close(); err != nil {
		return "", errors.Wrapf(err, "erro ao fechar %s", target)
	}

	return target, nil
}

// PruneBackups mantém apenas as `keep` cópias mais recentes do dataset em dir
func (s *Store) PruneBackups(dir string, keep int) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, s.dataset.Name+"-*.csv"))
	if err != nil {
		return 0, errors.Wrap(err, "erro ao listar backups")
	}

	if keep < 0 || len(matches) <= keep {
		return 0, nil
	}

	// O timestamp no nome ordena lexicograficamente
	sort.Strings(matches)

	removed := 0
	for _, path := range matches[:len(matches)-keep] {
		if err := os.Remove(path); err != nil {
			return removed, errors.Wrapf(err, "erro ao remover backup %s", path)
		}
		removed++
	}

	return removed, nil
}

func readFile(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir %s", path)
	}
	defer f.Close()

	table, err := ParseCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "arquivo acumulado %s corrompido", path)
	}

	return table, nil
}

func writeFileAtomic(path string, table *domain.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "erro ao criar arquivo temporário")
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := WriteCSV(tmp, table); err != nil {
		cleanup()
		return err
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrap(err, "erro ao sincronizar arquivo temporário")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "erro ao fechar arquivo temporário")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "erro ao substituir %s", path)
	}

	return nil
}
