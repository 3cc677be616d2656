package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ekdma/pt-trainer-log-sub001/internal/logger"
	"github.com/ekdma/pt-trainer-log-sub001/internal/metrics"
)

const (
	queueKey  = "notifications"
	failedKey = "notifications:failed"

	maxTries = 3
)

// Template ids understood by the messaging gateway.
const (
	TemplateReservationConfirmed = "reservation-confirmed"
	TemplateReservationCancelled = "reservation-cancelled"
)

// Dispatcher is the capability the booking flow needs: fire a templated
// message at a member's phone. Delivery is best effort; a failure never
// rolls back the state change that triggered it.
type Dispatcher interface {
	Send(ctx context.Context, phone, templateID string, params map[string]string) error
}

// Job is one queued notification. The uuid keys delivery so the gateway can
// deduplicate retried sends.
type Job struct {
	ID         string            `json:"id"`
	Phone      string            `json:"phone"`
	TemplateID string            `json:"template_id"`
	Params     map[string]string `json:"params"`
	Tries      int               `json:"tries"`
	Created    time.Time         `json:"created"`
}

type Service struct {
	redis      *redis.Client
	httpClient *http.Client
	gatewayURL string
	apiKey     string
	sender     string
}

func New(gatewayURL, apiKey, sender, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		sender:     sender,
	}
}

// NewWithClient injects a redis client. Test helper.
func NewWithClient(client *redis.Client, gatewayURL, apiKey, sender string) *Service {
	return &Service{
		redis:      client,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		sender:     sender,
	}
}

// Send queues the notification for background delivery.
func (s *Service) Send(ctx context.Context, phone, templateID string, params map[string]string) error {
	job := Job{
		ID:         uuid.NewString(),
		Phone:      phone,
		TemplateID: templateID,
		Params:     params,
		Tries:      0,
		Created:    time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", phone, err)
		return err
	}

	metrics.NotificationsQueuedTotal.WithLabelValues(templateID).Inc()
	logger.Infof("Notification queued: %s to %s", templateID, phone)
	return nil
}

// Start drains the queue until the context is cancelled.
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
	if err := s.deliver(ctx, job); err != nil {
		logger.Errorf("Failed to deliver notification %s to %s: %v", job.ID, job.Phone, err)
		metrics.NotificationsSentTotal.WithLabelValues("failure").Inc()

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	metrics.NotificationsSentTotal.WithLabelValues("success").Inc()
	logger.Infof("Notification delivered: %s to %s", job.TemplateID, job.Phone)
}

func (s *Service) deliver(ctx context.Context, job Job) error {
	payload := map[string]interface{}{
		"message_id": job.ID,
		"sender":     s.sender,
		"recipient":  job.Phone,
		"template":   job.TemplateID,
		"params":     job.Params,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, data)
	logger.Errorf("Notification moved to failed queue: %s", job.ID)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
