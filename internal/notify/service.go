package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymcore/internal/logger"
	"gymcore/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

// Outcome classifies how an operation that triggers a notification ended.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeConflict        = "conflict"
)

type Job struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Event   string    `json:"event"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues member notifications in Redis and drains the queue with a
// background worker so HTTP handlers never block on SMTP.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(redisClient *redis.Client, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	return &Service{
		redis:    redisClient,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, event, subject, body string) error {
	job := Job{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Event:   event,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", to, err)
		metrics.RecordNotification(event, OutcomeConflict)
		return err
	}

	metrics.RecordNotification(event, OutcomeSuccess)
	logger.Infof("Notification queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending notification to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Notification to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	logger.Infof("Notification sent to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Notification moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.SetNotifyQueueLength(float64(length))
	return length
}

func (s *Service) SendRegistrationConfirmation(ctx context.Context, email, name, packageName string, amountPaid float64, endDate *time.Time) error {
	subject := "Welcome to " + packageName
	until := "open-ended"
	if endDate != nil {
		until = endDate.Format("Jan 2, 2006")
	}
	body := fmt.Sprintf(`Hi %s,

Your membership package is active!

Package: %s
Paid: %.2f
Valid until: %s

See you at the gym!

- GymCore Team`, name, packageName, amountPaid, until)

	return s.Send(ctx, email, name, "registration", subject, body)
}

func (s *Service) SendUpgradeConfirmation(ctx context.Context, email, name, packageName string, amountDue float64) error {
	subject := "Package Upgraded - " + packageName
	body := fmt.Sprintf(`Hi %s,

Your membership has been upgraded to %s.
Amount charged after credit for unused days: %.2f

- GymCore Team`, name, packageName, amountDue)

	return s.Send(ctx, email, name, "upgrade", subject, body)
}

func (s *Service) SendReactivation(ctx context.Context, email, name string, newEndDate time.Time) error {
	subject := "Membership Reactivated"
	body := fmt.Sprintf(`Hi %s,

Your paused membership is active again.
New end date: %s

- GymCore Team`, name, newEndDate.Format("Jan 2, 2006"))

	return s.Send(ctx, email, name, "reactivation", subject, body)
}

func (s *Service) SendOnboardingComplete(ctx context.Context, email, name string) error {
	subject := "You're All Set!"
	body := fmt.Sprintf(`Hi %s,

Your trainer is booked and your training schedule is confirmed.
Time to hit the gym!

- GymCore Team`, name)

	return s.Send(ctx, email, name, "onboarding", subject, body)
}
