package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage/csvstore"
	"github.com/vfg2006/sales-dashboard-api/internal/api"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.SetupLogger(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	datasets, err := cfg.EnabledDatasets()
	if err != nil {
		logrus.Fatal(err)
	}

	stores, err := csvstore.OpenRegistry(cfg.Storage.DataDir, datasets, cfg.Storage.SchemaPolicy)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir os arquivos acumulados")
	}

	for _, store := range stores.All() {
		logrus.WithFields(logrus.Fields{
			"dataset": store.Dataset().Name,
			"path":    store.Path(),
			"rows":    store.Len(),
		}).Info("Dataset carregado")
	}

	// O histórico de uploads é opcional; sem banco a ingestão continua funcionando
	var uploadRepo repository.UploadRepository
	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		uploadRepo = repository.NewUploadRepository(pgConn)
	} else {
		logrus.Info("DATABASE_ENABLED=false, histórico de uploads desabilitado")
	}

	aggregator := aggregating.NewService(stores)
	ingester := ingesting.NewService(stores, uploadRepo)
	authenticator := authenticating.NewService(cfg)

	backupService := scheduler.NewBackupService(stores, cfg)
	if err := backupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de backup")
	}

	server, err := api.New(cfg, aggregator, ingester, authenticator, backupService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSource faz caminhos relativos (.env, DATA_DIR) partirem do diretório do main em execução local
func chdirToSource() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return
	}
	if err := os.Chdir(path.Dir(file)); err != nil {
		logrus.WithError(err).Debug("Mantendo diretório de trabalho atual")
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
