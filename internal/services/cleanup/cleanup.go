// Package cleanup отвечает за файлы, которые не удалось удалить из хранилища
// после уже зафиксированной записи в БД.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/metrics"
	"atelier/internal/storage"
)

// Job - задание на повторное удаление файла.
type Job struct {
	Path     string    `json:"path"`
	Op       string    `json:"op"`
	Reason   string    `json:"reason"`
	Attempt  int       `json:"attempt"`
	FailedAt time.Time `json:"failed_at"`
}

// Publisher передаёт задания в очередь.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// LogSink - Publisher без брокера: только пишет задание в лог.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Publish(_ context.Context, job Job) error {
	s.log.Warn("orphaned blob left in storage",
		slog.String("path", job.Path),
		slog.String("source_op", job.Op),
		slog.String("reason", job.Reason),
	)
	metrics.OrphanedBlobsPublished.WithLabelValues("log").Inc()
	return nil
}

// Cleaner удаляет файлы после коммита. Ошибки удаления не прерывают
// операцию: они превращаются в предупреждения и уходят в очередь.
type Cleaner struct {
	log   *slog.Logger
	store storage.BlobStore
	pub   Publisher
}

func NewCleaner(log *slog.Logger, store storage.BlobStore, pub Publisher) *Cleaner {
	return &Cleaner{log: log, store: store, pub: pub}
}

// DeleteBlobs удаляет файлы по путям и возвращает тексты предупреждений.
// Пустые пути пропускаются, отсутствующий файл ошибкой не считается.
func (c *Cleaner) DeleteBlobs(ctx context.Context, op string, paths []string) []string {
	var warnings []string

	for _, path := range paths {
		if path == "" {
			continue
		}

		err := c.store.Delete(ctx, path)
		if err == nil || errors.Is(err, storage.ErrFileNotFound) {
			continue
		}

		w := errs.StorageCleanupWarning{Path: path, Err: err}
		warnings = append(warnings, w.String())
		c.report(ctx, op, w)
	}

	return warnings
}

func (c *Cleaner) report(ctx context.Context, op string, w errs.StorageCleanupWarning) {
	log := c.log.With(slog.String("op", op), slog.String("path", w.Path))

	log.Warn("storage cleanup failed", sl.Err(w.Err))
	metrics.StorageCleanupWarnings.WithLabelValues(op).Inc()

	job := Job{
		Path:     w.Path,
		Op:       op,
		Reason:   w.Err.Error(),
		FailedAt: time.Now().UTC(),
	}

	// отдельный контекст: запрос мог уже завершиться
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := c.pub.Publish(pubCtx, job); err != nil {
		log.Error("failed to enqueue orphaned blob", sl.Err(err))
	}
}

// Worker повторяет удаление файлов из очереди.
type Worker struct {
	log         *slog.Logger
	store       storage.BlobStore
	maxAttempts int
}

func NewWorker(log *slog.Logger, store storage.BlobStore, maxAttempts int) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{log: log, store: store, maxAttempts: maxAttempts}
}

var ErrGiveUp = errors.New("cleanup: attempts exhausted")

// Handle удаляет файл. Ошибка означает, что задание нужно повторить;
// ErrGiveUp - что попытки исчерпаны и задание отбрасывается.
func (w *Worker) Handle(ctx context.Context, job Job) error {
	const op = "cleanup.Worker.Handle"

	log := w.log.With(
		slog.String("op", op),
		slog.String("path", job.Path),
		slog.Int("attempt", job.Attempt),
	)

	if job.Path == "" {
		log.Warn("empty path, dropping job")
		return nil
	}

	err := w.store.Delete(ctx, job.Path)
	if err == nil || errors.Is(err, storage.ErrFileNotFound) {
		log.Info("orphaned blob removed")
		metrics.OrphanedBlobsRetried.WithLabelValues("removed").Inc()
		return nil
	}

	if job.Attempt+1 >= w.maxAttempts {
		log.Error("giving up on orphaned blob", sl.Err(err))
		metrics.OrphanedBlobsRetried.WithLabelValues("dropped").Inc()
		return fmt.Errorf("%s: %w: %w", op, ErrGiveUp, err)
	}

	log.Warn("retry failed", sl.Err(err))
	metrics.OrphanedBlobsRetried.WithLabelValues("failed").Inc()
	return fmt.Errorf("%s: %w", op, err)
}
