// Package notify raises escalation alerts when a parsed query hands the
// conversation off to a human: an SNS message for the on-call channel and
// an email to the support desk.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	smithyaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/config"
	commonErrors "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/errors"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/metrics"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/pipeline"
)

// Escalating next actions.
const (
	actionTransferToAgent = "TRANSFER_TO_AGENT"
	actionCreateTicket    = "CREATE_TICKET"
)

type snsAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type sesAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Notifier sends escalation alerts for agent transfers and complaint
// tickets. Both channels are attempted independently; one failing does not
// stop the other.
type Notifier struct {
	sns snsAPI
	ses sesAPI
	cfg config.NotificationConfig
	log logger.Logger
}

// New creates a Notifier over the given SNS and SES clients. Either client
// may be nil, which disables that channel.
func New(snsClient snsAPI, sesClient sesAPI, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{sns: snsClient, ses: sesClient, cfg: cfg, log: log}
}

// ShouldEscalate reports whether a parse result warrants an alert.
func ShouldEscalate(result *pipeline.Result) bool {
	if result == nil || result.NextAction == nil {
		return false
	}
	switch result.NextAction.NextAction {
	case actionTransferToAgent, actionCreateTicket:
		return true
	}
	return false
}

// Escalate sends the alert for an escalating parse result. Failures are
// logged and counted but never returned to the request path; callers fire
// this off a goroutine.
func (n *Notifier) Escalate(ctx context.Context, result *pipeline.Result) {
	if !ShouldEscalate(result) {
		return
	}

	if err := n.publishSNS(ctx, result); err != nil {
		metrics.EscalationsSent.WithLabelValues("sns", "error").Inc()
		n.log.WithError(err).Error("failed to publish escalation to SNS", nil)
	} else if n.sns != nil {
		metrics.EscalationsSent.WithLabelValues("sns", "success").Inc()
	}

	if err := n.sendEmail(ctx, result); err != nil {
		metrics.EscalationsSent.WithLabelValues("email", "error").Inc()
		n.log.WithError(err).Error("failed to send escalation email", nil)
	} else if n.ses != nil {
		metrics.EscalationsSent.WithLabelValues("email", "success").Inc()
	}
}

func (n *Notifier) publishSNS(ctx context.Context, result *pipeline.Result) error {
	if n.sns == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query":       result.Query,
		"intent":      result.Intent.Intent,
		"confidence":  result.Intent.Confidence,
		"next_action": result.NextAction.NextAction,
		"contact":     result.NextAction.Contact,
	})
	if err != nil {
		return commonErrors.NewNotificationFailedError("sns", err)
	}

	_, err = n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: smithyaws.String(n.cfg.TopicARN),
		Subject:  smithyaws.String(fmt.Sprintf("Voice agent escalation: %s", result.NextAction.NextAction)),
		Message:  smithyaws.String(string(payload)),
	})
	if err != nil {
		return commonErrors.NewNotificationFailedError("sns", err)
	}
	return nil
}

func (n *Notifier) sendEmail(ctx context.Context, result *pipeline.Result) error {
	if n.ses == nil {
		return nil
	}

	body := fmt.Sprintf(
		"A voice query needs human attention.\n\nQuery: %s\nIntent: %s (confidence %.2f)\nNext action: %s\n",
		result.Query, result.Intent.Intent, result.Intent.Confidence, result.NextAction.NextAction,
	)
	if result.NextAction.Contact != "" {
		body += fmt.Sprintf("Customer contact: %s\n", result.NextAction.Contact)
	}

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: smithyaws.String(n.cfg.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.SupportEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data: smithyaws.String(fmt.Sprintf("Voice agent escalation: %s", result.NextAction.NextAction)),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data: smithyaws.String(body),
				},
			},
		},
	})
	if err != nil {
		return commonErrors.NewNotificationFailedError("email", err)
	}
	return nil
}
