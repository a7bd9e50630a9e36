// Package audit keeps the append-only history log of entity changes.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teamops/internal/logger"
	"teamops/internal/model"
	"teamops/internal/patch"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var writeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "teamops_history_write_failures_total",
	Help: "History log rows that could not be written.",
}, []string{"entity"})

// Writer appends history rows. Its write methods never return an error:
// a failed history write is logged and counted, and the mutation it
// describes stands.
type Writer struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWriter(db *gorm.DB) *Writer { return &Writer{db: db, now: time.Now} }

// WithClock replaces the timestamp source.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Created records a new record. No row is written without an actor.
func (w *Writer) Created(ctx context.Context, entity, id, actor string, record any) {
	if actor == "" {
		return
	}
	w.append(ctx, entity, w.entry(entity, id, actor, model.HistoryCreated, nil, nil, record))
}

// Updated records one row per changed field.
func (w *Writer) Updated(ctx context.Context, entity, id, actor string, changes []patch.Change) {
	if actor == "" || len(changes) == 0 {
		return
	}
	rows := make([]model.HistoryLog, 0, len(changes))
	for _, ch := range changes {
		action := model.HistoryUpdated
		if ch.Status {
			action = model.HistoryStatusChanged
		}
		field := ch.Field
		rows = append(rows, w.entry(entity, id, actor, action, &field, ch.Old, ch.New))
	}
	w.append(ctx, entity, rows...)
}

// Deleted records the full record as it was before deletion.
func (w *Writer) Deleted(ctx context.Context, entity, id, actor string, record any) {
	if actor == "" {
		return
	}
	w.append(ctx, entity, w.entry(entity, id, actor, model.HistoryDeleted, nil, record, nil))
}

// History returns an entity's rows, newest first. An entity with no rows
// yields an empty slice.
func (w *Writer) History(ctx context.Context, entity, id string) ([]model.HistoryLog, error) {
	rows := []model.HistoryLog{}
	err := w.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entity, id).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return rows, nil
}

func (w *Writer) entry(entity, id, actor string, action model.HistoryAction, field *string, oldV, newV any) model.HistoryLog {
	return model.HistoryLog{
		ID:         model.NewID(),
		EntityType: entity,
		EntityID:   id,
		Action:     action,
		FieldName:  field,
		OldValue:   serialize(oldV),
		NewValue:   serialize(newV),
		UserID:     actor,
		CreatedAt:  w.now(),
	}
}

func (w *Writer) append(ctx context.Context, entity string, rows ...model.HistoryLog) {
	// history is not part of the caller's transaction, so it must not inherit
	// a cancelled request context either
	ctx = context.WithoutCancel(ctx)
	if err := w.db.WithContext(ctx).Create(&rows).Error; err != nil {
		writeFailures.WithLabelValues(entity).Add(float64(len(rows)))
		logger.Error("history write failed", "entity", entity, "rows", len(rows), "err", err)
	}
}

// serialize renders v as JSON; nil stays NULL.
func serialize(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		s := fmt.Sprintf("%v", v)
		return &s
	}
	s := string(b)
	return &s
}
