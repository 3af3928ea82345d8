package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage/csvstore"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const (
	idLength   = 12
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS dataset_uploads (
		id          VARCHAR(32) PRIMARY KEY,
		dataset     VARCHAR(64) NOT NULL,
		filename    TEXT        NOT NULL,
		row_count   INTEGER     NOT NULL,
		total_rows  INTEGER     NOT NULL,
		columns     TEXT[]      NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS dataset_uploads_dataset_created_at_idx
		ON dataset_uploads (dataset, created_at DESC)`,
}

func generateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}

func createSchema(ctx context.Context, tx *sql.Tx) error {
	logrus.Info("Criando tabela dataset_uploads...")
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "erro ao criar schema")
		}
	}
	return nil
}

// backfill registra um upload sintético para cada arquivo acumulado que ainda não tem histórico
func backfill(ctx context.Context, tx *sql.Tx, stores *csvstore.Registry) error {
	startTime := time.Now()
	inserted, skipped := 0, 0

	for _, store := range stores.All() {
		ds := store.Dataset()
		logger := logrus.WithField("dataset", ds.Name)

		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM dataset_uploads WHERE dataset = $1)`, ds.Name).Scan(&exists)
		if err != nil {
			return errors.Wrapf(err, "erro ao verificar histórico de %s", ds.Name)
		}

		table := store.Snapshot()
		if exists || table.Len() == 0 {
			logger.Info("Histórico já existe ou arquivo vazio, ignorando")
			skipped++
			continue
		}

		id, err := generateID()
		if err != nil {
			return errors.Wrap(err, "erro ao gerar id")
		}

		createdAt := time.Now()
		if info, err := os.Stat(store.Path()); err == nil {
			createdAt = info.ModTime()
		}

		query, args, err := squirrel.
			Insert("dataset_uploads").
			Columns("id", "dataset", "filename", "row_count", "total_rows", "columns", "created_at").
			Values(id, ds.Name, ds.FileName, table.Len(), table.Len(), pq.Array(table.Columns), createdAt).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "erro ao construir insert")
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "erro ao registrar histórico de %s", ds.Name)
		}

		logger.WithField("rows", table.Len()).Info("Histórico inicial registrado")
		inserted++
	}

	logrus.Infof("Backfill concluído em %v. Inseridos: %d, Ignorados: %d", time.Since(startTime), inserted, skipped)
	return nil
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.SetupLogger(cfg.App.LogLevel)
	logrus.Info("Iniciando script de migração...")

	ctx := context.Background()

	datasets, err := cfg.EnabledDatasets()
	if err != nil {
		logrus.Fatal(err)
	}

	stores, err := csvstore.OpenRegistry(cfg.Storage.DataDir, datasets, cfg.Storage.SchemaPolicy)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir os arquivos acumulados")
	}

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}
	defer conn.Close()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := createSchema(ctx, tx); err != nil {
			return err
		}
		return backfill(ctx, tx, stores)
	})
	if err != nil {
		logrus.WithError(err).Fatal("Migração revertida")
	}

	logrus.Info("Migração concluída com sucesso")
}
