package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/websocket"
	"golang.org/x/time/rate"
)

// Notification é o conteúdo entregue pelos canais de notificação
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

// Notifier é um canal de entrega fire-and-forget: sem confirmação, sem retry
type Notifier interface {
	Deliver(ctx context.Context, n Notification) error
}

// BannerNotifier entrega banners efêmeros no app via broadcast WebSocket
type BannerNotifier struct {
	hub *websocket.Hub
}

// NewBannerNotifier cria o canal de banner sobre o hub informado
func NewBannerNotifier(hub *websocket.Hub) *BannerNotifier {
	return &BannerNotifier{hub: hub}
}

// Deliver envia o banner a todos os clientes conectados
func (b *BannerNotifier) Deliver(ctx context.Context, n Notification) error {
	b.hub.BroadcastNotification(n.Title, n.Body, n.Icon)
	return nil
}

// webhookPayload é o corpo enviado ao webhook de notificações do sistema
type webhookPayload struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Icon      string    `json:"icon,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Limites do canal de webhook
const (
	webhookTimeout   = 10 * time.Second
	webhookPerMinute = 30
	webhookBurst     = 5
)

// WebhookNotifier entrega notificações de sistema via POST JSON a um webhook
// configurado (ntfy, gotify, etc). Um rate limiter protege o destino: envios
// acima do limite são descartados, coerente com a entrega fire-and-forget.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewWebhookNotifier cria o canal de webhook; url vazia desabilita o canal
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/webhookPerMinute), webhookBurst),
	}
}

// Enabled indica se há webhook configurado
func (w *WebhookNotifier) Enabled() bool {
	return w.url != ""
}

// Deliver envia a notificação ao webhook
func (w *WebhookNotifier) Deliver(ctx context.Context, n Notification) error {
	if w.url == "" {
		return nil
	}

	if !w.limiter.Allow() {
		logger.Get(ctx).Debug().Str("title", n.Title).Msg("Webhook rate limit atingido, descartando")
		return nil
	}

	payload := webhookPayload{
		Title:     n.Title,
		Body:      n.Body,
		Icon:      n.Icon,
		Timestamp: time.Now(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("criar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enviar webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook retornou status %d", resp.StatusCode)
	}

	logger.Get(ctx).Debug().
		Str("url", w.url).
		Int("status", resp.StatusCode).
		Str("title", n.Title).
		Msg("Notificação enviada ao webhook")

	return nil
}
