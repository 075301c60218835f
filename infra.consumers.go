package main

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// AuditStorage persists audit events.
type AuditStorage interface {
	Append(ctx context.Context, event AuditEvent) error
	List(ctx context.Context, limit int) ([]AuditEvent, error)
}

type boltAuditStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *AuditConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.Audit.FilePath, 0o600, &bolt.Options{Timeout: config.Audit.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the audit database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.Audit.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.Audit.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up audit bucket: %v", err)
	}
	return db, nil
}

// NewBoltAuditStorage provides an instance of bolt-based audit storage.
func NewBoltAuditStorage(logger *zap.Logger, auditConfig *AuditConfig, client *bolt.DB) AuditStorage {
	return &boltAuditStorage{
		logger: logger,
		client: client,
		config: auditConfig,
	}
}

// Close shuts down the bolt-based audit storage.
func (as *boltAuditStorage) Close() error {
	return as.client.Close()
}

// Append inserts an audit event. Keys are prefixed with the event
// timestamp so a bucket cursor walks the trail chronologically.
func (as *boltAuditStorage) Append(_ context.Context, event AuditEvent) error {
	eventBytes, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return err
	}
	key := event.At + "|" + event.ID
	return as.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(as.config.BucketName)).Put([]byte(key), eventBytes)
	})
}

// List retrieves the most recent audit events, newest first.
func (as *boltAuditStorage) List(_ context.Context, limit int) ([]AuditEvent, error) {
	tx, err := as.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(as.config.BucketName)).Cursor()
	events := []AuditEvent{}
	for k, v := c.Last(); k != nil && len(events) < limit; k, v = c.Prev() {
		var event AuditEvent
		if err = jsoniter.ConfigFastest.Unmarshal(v, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

type Consumer interface {
	Consume(ctx context.Context, qid string) error
}

type auditConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	storage AuditStorage
}

func NewAuditConsumer(logger *zap.Logger, q Queuer, storage AuditStorage) Consumer {
	return &auditConsumer{logger, q, storage}
}

// Consume drains the audit queue into the audit storage until the
// context is done. Storage failures are logged and skipped, the trail
// is advisory and must never stall the catalog.
func (ac *auditConsumer) Consume(ctx context.Context, qid string) error {
	for {
		event, err := ac.queue.Pop(ctx, qid)
		if err != nil && ctx.Err() != nil {
			ac.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			ac.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if err = ac.storage.Append(ctx, event); err != nil {
			ac.logger.Error("consumer: failed to append audit event", zap.Any("event", event), zap.Error(err))
		}
	}
}
