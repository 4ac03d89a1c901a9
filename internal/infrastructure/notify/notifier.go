package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/application"
)

// Notifier は回答イベントをメッセンジャーゲートウェイへ転送する。
// 送信失敗はリトライせず failed_notifications コレクションへ退避し、
// 回答の受付処理そのものは決してブロックしない。
type Notifier struct {
	logger              *log.Logger
	httpClient          *http.Client
	endpoint            string
	destination         string
	failedNotifications *mongo.Collection
}

// Config defines the notifier dependencies.
type Config struct {
	Logger              *log.Logger
	HTTPClient          *http.Client
	Endpoint            string
	Destination         string
	FailedNotifications *mongo.Collection
}

// New constructs a Notifier. An empty endpoint disables delivery.
func New(cfg Config) *Notifier {
	return &Notifier{
		logger:              cfg.Logger,
		httpClient:          cfg.HTTPClient,
		endpoint:            strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		destination:         cfg.Destination,
		failedNotifications: cfg.FailedNotifications,
	}
}

// Subscribe registers the notifier on the answer event stream.
func (n *Notifier) Subscribe(events *application.EventBus) {
	events.OnAnswerInserted(func(ev application.AnswerInsertedEvent) {
		go n.deliver("answer.inserted", map[string]any{
			"domain":   ev.DomainID,
			"client":   ev.ClientID,
			"question": ev.Answer.Question,
			"type":     string(ev.Answer.Type),
		})
	})
	events.OnAnswerUpdated(func(ev application.AnswerUpdatedEvent) {
		go n.deliver("answer.updated", map[string]any{
			"domain":   ev.DomainID,
			"client":   ev.ClientID,
			"question": ev.Answer.Question,
			"type":     string(ev.Answer.Type),
		})
	})
	events.OnAnswerExpired(func(ev application.AnswerExpiredEvent) {
		go n.deliver("answer.expired", map[string]any{
			"domain": ev.DomainID,
			"client": ev.ClientID,
		})
	})
}

func (n *Notifier) deliver(event string, payload map[string]any) {
	if n.endpoint == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := n.post(ctx, event, payload); err != nil {
		if n.logger != nil {
			n.logger.Printf("イベント通知の送信に失敗 (%s): %v", event, err)
		}
		n.recordFailure(ctx, event, payload, err)
	}
}

func (n *Notifier) post(ctx context.Context, event string, payload map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"destination": n.destination,
		"event":       event,
		"payload":     payload,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *Notifier) recordFailure(ctx context.Context, event string, payload map[string]any, cause error) {
	if n.failedNotifications == nil {
		return
	}

	_, err := n.failedNotifications.InsertOne(ctx, bson.M{
		"event":     event,
		"payload":   payload,
		"error":     cause.Error(),
		"createdAt": time.Now(),
	})
	if err != nil && n.logger != nil {
		n.logger.Printf("失敗通知の退避に失敗: %v", err)
	}
}
