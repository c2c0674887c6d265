package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/report"
	"github.com/wneessen/go-mail"
)

type Mailer struct {
	client *mail.Client
	from   string
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		return nil, err
	}

	return &Mailer{
		client: client,
		from:   cfg.Email.SMTP.Username,
	}, nil
}

func (m *Mailer) Close() error {
	return m.client.Close()
}

// Notify 将结果通过邮件发送给提交任务时填写的邮箱
func (m *Mailer) Notify(ctx context.Context, run *domain.OptimizationRun) error {
	msg, err := NewReportMessage(m.from, run)
	if err != nil {
		return err
	}

	return m.client.DialAndSendWithContext(ctx, msg)
}

// NewReportMessage 正文为文本格式的结果，附件为 xlsx 报表
func NewReportMessage(from string, run *domain.OptimizationRun) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(run.NotifyEmail); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	msg.Subject(fmt.Sprintf("出差费用优化结果 - 目标 %.2f", run.TargetCost))

	var body strings.Builder
	fmt.Fprintf(&body, "任务 %s 已完成，结果为 %s，共迭代 %d 代，耗时 %d ms。\n\n", run.ID, run.Outcome, run.Generations, run.ElapsedMS)
	if err := report.WriteText(&body, run.Delegations); err != nil {
		return nil, err
	}
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	var attachment bytes.Buffer
	if err := report.WriteXLSX(&attachment, run); err != nil {
		return nil, fmt.Errorf("无法生成报表: %w", err)
	}
	if err := msg.AttachReader(fmt.Sprintf("optimization-%s.xlsx", run.ID), &attachment); err != nil {
		return nil, fmt.Errorf("无法添加附件: %w", err)
	}

	return msg, nil
}
