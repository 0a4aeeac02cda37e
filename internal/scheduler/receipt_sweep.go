package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/infrastructure/objectstore"
	"github.com/vfg2006/ticket-sales-api/infrastructure/repository"
	"github.com/vfg2006/ticket-sales-api/internal/config"
)

const sweepTimeout = 5 * time.Minute

// ReceiptSweepConfig representa a configuração da varredura de comprovantes órfãos
type ReceiptSweepConfig struct {
	CronSchedule   string
	SyncEnabled    bool
	GracePeriod    time.Duration
	CredentialTier config.CredentialTier
	KeyRole        string
}

// SweepResult resume uma execução da varredura
type SweepResult struct {
	Scanned  int `json:"scanned"`
	Orphaned int `json:"orphaned"`
	Deleted  int `json:"deleted"`
	Failed   int `json:"failed"`
}

// ReceiptSweepService remove do bucket os comprovantes que nenhuma venda referencia.
// Sobram objetos assim quando o upload dá certo e a inserção falha sem que a remoção
// imediata consiga limpar.
type ReceiptSweepService struct {
	scheduler           *gocron.Scheduler
	config              ReceiptSweepConfig
	saleRepo            repository.SaleRepository
	receipts            objectstore.ReceiptStore
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          SweepResult
	lastError           string
}

func NewReceiptSweepService(
	saleRepo repository.SaleRepository,
	receipts objectstore.ReceiptStore,
	appConfig *config.Config,
) *ReceiptSweepService {
	sweepConfig := ReceiptSweepConfig{
		CronSchedule:   appConfig.ReceiptSweep.CronSchedule,
		SyncEnabled:    appConfig.ReceiptSweep.Enabled,
		GracePeriod:    time.Duration(appConfig.ReceiptSweep.GraceMinutes) * time.Minute,
		CredentialTier: appConfig.Supabase.KeyTier,
		KeyRole:        appConfig.Supabase.KeyRole,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": sweepConfig.CronSchedule,
		"sync_enabled":  sweepConfig.SyncEnabled,
		"grace_period":  sweepConfig.GracePeriod.String(),
	}).Info("Configuração da varredura de comprovantes carregada")

	return &ReceiptSweepService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    sweepConfig,
		saleRepo:  saleRepo,
		receipts:  receipts,
		now:       time.Now,
	}
}

// Start agenda a varredura quando habilitada
func (s *ReceiptSweepService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Varredura de comprovantes órfãos desabilitada por configuração")
		return nil
	}

	if s.config.CredentialTier != config.TierServiceRole || (s.config.KeyRole != "" && s.config.KeyRole != string(config.TierServiceRole)) {
		logrus.WithFields(logrus.Fields{
			"credential_tier": s.config.CredentialTier,
			"key_role":        s.config.KeyRole,
		}).Warn("Varredura de comprovantes sem chave service_role: o storage pode negar as remoções")
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador da varredura de comprovantes")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.runSweep)
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura de comprovantes: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador da varredura de comprovantes")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ReceiptSweepService) runSweep() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Varredura de comprovantes já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	result, err := s.Sweep(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	s.lastResult = result
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Erro na varredura de comprovantes")
		return
	}

	logrus.WithFields(logrus.Fields{
		"scanned":  result.Scanned,
		"orphaned": result.Orphaned,
		"deleted":  result.Deleted,
		"failed":   result.Failed,
	}).Info("Varredura de comprovantes concluída")
}

// Sweep apaga os objetos sem venda associada e mais velhos que o período de carência.
// Objetos sem data (pastas) nunca são apagados.
func (s *ReceiptSweepService) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	referenced, err := s.saleRepo.ListReceiptFilenames(ctx)
	if err != nil {
		return result, fmt.Errorf("erro ao listar comprovantes das vendas: %w", err)
	}

	keys := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		keys[key] = struct{}{}
	}

	objects, err := s.receipts.ListObjects(ctx)
	if err != nil {
		return result, fmt.Errorf("erro ao listar objetos do bucket: %w", err)
	}

	cutoff := s.now().Add(-s.config.GracePeriod)

	for _, object := range objects {
		if object.ID == "" || object.CreatedAt.IsZero() {
			continue
		}
		result.Scanned++

		if _, ok := keys[object.Name]; ok {
			continue
		}
		if object.CreatedAt.After(cutoff) {
			continue
		}
		result.Orphaned++

		if err := s.receipts.Delete(ctx, object.Name); err != nil {
			result.Failed++
			logrus.WithError(err).WithField("receipt_key", object.Name).Warn("Erro ao remover comprovante órfão")
			continue
		}
		result.Deleted++
	}

	return result, nil
}

// TriggerManualSync dispara a varredura fora do agendamento, mesmo se desabilitada
func (s *ReceiptSweepService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Varredura de comprovantes já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando varredura manual de comprovantes")
	go s.runSweep()
}

// GetStatus retorna o status atual da varredura
func (s *ReceiptSweepService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":            s.syncRunning,
		"sync_cron":               s.config.CronSchedule,
		"sync_enabled":            s.config.SyncEnabled,
		"grace_period":            s.config.GracePeriod.String(),
		"last_sync_started_at":    s.lastSyncStartedAt,
		"last_sync_completed_at":  s.lastSyncCompletedAt,
		"last_result":             s.lastResult,
		"last_error":              s.lastError,
		"storage_credential_tier": string(s.config.CredentialTier),
		"storage_key_role":        s.config.KeyRole,
	}
}
