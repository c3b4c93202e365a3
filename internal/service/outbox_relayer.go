package service

import (
	"context"
	"time"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"

	"github.com/sirupsen/logrus"
)

type Sender func(ctx context.Context, ob *model.ClubOutbox) error

// OutboxRelayer 从 outbox 表读取社团事件并投递
type OutboxRelayer struct {
	repo      repository.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	logger    *logrus.Logger
}

func NewOutboxRelayer(repo repository.OutboxRepository, sender Sender, logger *logrus.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		logger:    logger,
	}
}

// Run outbox启动器，ctx 取消后退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 按 id 顺序投递一批，失败的留待下次重试
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.logger.WithError(err).Warn("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			pkg.OutboxRelayed.WithLabelValues("failed").Inc()
			r.logger.WithError(err).WithFields(logrus.Fields{
				"outbox_id": ob.ID,
				"retry":     ob.Retry + 1,
			}).Warn("outbox send failed")
			if err := r.repo.MarkFailed(ctx, ob.ID); err != nil {
				r.logger.WithError(err).Warn("outbox mark failed")
			}
			continue
		}
		pkg.OutboxRelayed.WithLabelValues("sent").Inc()
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.logger.WithError(err).Warn("outbox mark sent failed")
		}
	}
}

// KafkaSender 以社团 id 为 key 投递，同一社团的事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ClubOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.ClubID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
		})
	}
}

// LogSender 未配置 Kafka 时使用
func LogSender(logger *logrus.Logger) Sender {
	return func(ctx context.Context, ob *model.ClubOutbox) error {
		logger.WithFields(logrus.Fields{
			"type":    ob.EventType,
			"club_id": ob.ClubID,
			"actor":   ob.ActorID,
		}).Info("outbox event ", ob.Payload)
		return nil
	}
}
