// Package scheduler contém os serviços agendados sobre os arquivos acumulados
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage/csvstore"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
)

type BackupConfig struct {
	Dir          string
	CronSchedule string
	Enabled      bool
	Retention    int
}

// BackupService copia periodicamente os arquivos acumulados, remove cópias antigas
// e recarrega em memória arquivos alterados fora da API
type BackupService struct {
	scheduler *gocron.Scheduler
	stores    *csvstore.Registry
	config    BackupConfig
	now       func() time.Time

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastFiles           []string
	lastError           string
}

func NewBackupService(stores *csvstore.Registry, cfg *config.Config) *BackupService {
	backupConfig := BackupConfig{
		Dir:          cfg.Backup.Dir,
		CronSchedule: cfg.Backup.CronSchedule,
		Enabled:      cfg.Backup.Enabled,
		Retention:    cfg.Backup.Retention,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": backupConfig.CronSchedule,
		"dir":           backupConfig.Dir,
		"retention":     backupConfig.Retention,
	}).Info("Configuração do agendador de backup carregada")

	return &BackupService{
		scheduler: gocron.NewScheduler(time.Local),
		stores:    stores,
		config:    backupConfig,
		now:       time.Now,
	}
}

func (s *BackupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de backup desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de backup dos datasets")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunBackup(); err != nil {
			logrus.WithError(err).Error("Erro no backup dos datasets")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar backup dos datasets: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de backup")
		s.scheduler.Stop()
	}()

	return nil
}

// RunBackup executa um ciclo completo para todos os datasets. Um dataset com erro não
// interrompe os demais; os erros são devolvidos juntos.
func (s *BackupService) RunBackup() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Backup dos datasets já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	logrus.Info("Iniciando backup dos datasets")

	files := make([]string, 0)
	var errs []error

	for _, store := range s.stores.All() {
		logger := logrus.WithField("dataset", store.Dataset().Name)

		path, err := store.Backup(s.config.Dir, s.now())
		if err != nil {
			logger.WithError(err).Error("Erro ao copiar arquivo acumulado")
			errs = append(errs, err)
			continue
		}
		files = append(files, path)

		if s.config.Retention > 0 {
			removed, err := store.PruneBackups(s.config.Dir, s.config.Retention)
			if err != nil {
				logger.WithError(err).Warn("Erro ao remover backups antigos")
				errs = append(errs, err)
			} else if removed > 0 {
				logger.WithField("removed", removed).Info("Backups antigos removidos")
			}
		}

		changed, err := store.Reload()
		if err != nil {
			logger.WithError(err).Error("Erro ao reconciliar arquivo acumulado")
			errs = append(errs, err)
			continue
		}
		if changed {
			logger.WithField("rows", store.Len()).Warn("Arquivo acumulado alterado fora da API, memória recarregada")
		}
	}

	err := errors.Join(errs...)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	s.lastFiles = files
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.syncMutex.Unlock()

	logrus.WithField("files", len(files)).Info("Backup dos datasets concluído")

	return err
}

// TriggerManualSync inicia manualmente um backup
func (s *BackupService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Backup já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando backup manual dos datasets")
	go func() {
		if err := s.RunBackup(); err != nil {
			logrus.WithError(err).Error("Erro no backup manual dos datasets")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *BackupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"retention":              s.config.Retention,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_files":             append([]string(nil), s.lastFiles...),
		"last_error":             s.lastError,
	}
}
