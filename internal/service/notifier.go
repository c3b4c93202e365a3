package service

import (
	"context"
	"sync"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"

	"github.com/sirupsen/logrus"
)

// Notifier 入团申请处理结果通知，失败只记录日志
type Notifier interface {
	RequestDecided(ctx context.Context, user model.User, club model.Club, approved bool)
}

type NopNotifier struct{}

func (NopNotifier) RequestDecided(context.Context, model.User, model.Club, bool) {}

type MailNotifier struct {
	cfg    pkg.SMTPConfig
	logger *logrus.Logger
	send   func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error
	wg     sync.WaitGroup
}

func NewMailNotifier(cfg pkg.SMTPConfig, logger *logrus.Logger) *MailNotifier {
	return &MailNotifier{cfg: cfg, logger: logger, send: pkg.SendEmail}
}

// RequestDecided 异步发送，不阻塞请求
func (n *MailNotifier) RequestDecided(_ context.Context, user model.User, club model.Club, approved bool) {
	subject := "Your club join request was rejected"
	if approved {
		subject = "Your club join request was approved"
	}
	body := pkg.RequestDecisionHTML(user.Name, club.Name, approved)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(n.cfg, user.Email, subject, body); err != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"user_id": user.ID,
				"club_id": club.ID,
			}).Warn("send request decision mail failed")
		}
	}()
}

// Wait 等待发送中的邮件，退出时调用
func (n *MailNotifier) Wait() {
	n.wg.Wait()
}
