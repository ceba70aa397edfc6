package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// drainWelcomeMessage drains the welcome message sent during client registration
func drainWelcomeMessage(client *Client) {
	select {
	case <-client.Send:
		// Welcome message drained
	case <-time.After(100 * time.Millisecond):
		// No welcome message (shouldn't happen)
	}
}

func newTestClient(hub *Hub) *Client {
	return &Client{
		Send:        make(chan []byte, 10),
		Hub:         hub,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}
}

// For any banner notification, every connected client should receive the
// message with the same title, body and icon
func TestBannerBroadcastConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("banners are delivered with correct data", prop.ForAll(
		func(title, body, icon string) bool {
			hub := NewHub()

			client := newTestClient(hub)
			hub.registerClient(client)
			drainWelcomeMessage(client)

			hub.BroadcastNotification(title, body, icon)

			select {
			case msg := <-client.Send:
				var received Message
				if err := json.Unmarshal(msg, &received); err != nil {
					return false
				}
				if received.Type != "notification" {
					return false
				}

				data, err := json.Marshal(received.Data)
				if err != nil {
					return false
				}
				var notif NotificationData
				if err := json.Unmarshal(data, &notif); err != nil {
					return false
				}

				return notif.Title == title && notif.Body == body && notif.Icon == icon

			case <-time.After(100 * time.Millisecond):
				return false
			}
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("every connected client receives the banner", prop.ForAll(
		func(clientCount int) bool {
			hub := NewHub()

			clients := make([]*Client, clientCount)
			for i := range clients {
				clients[i] = newTestClient(hub)
				hub.registerClient(clients[i])
				drainWelcomeMessage(clients[i])
			}

			hub.BroadcastNotification("Hora de Cocinar", "Prepara la cena.", "chef-hat")

			for _, client := range clients {
				select {
				case <-client.Send:
				case <-time.After(100 * time.Millisecond):
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

// Test basic banner delivery
func TestBasicBannerBroadcast(t *testing.T) {
	hub := NewHub()

	client := newTestClient(hub)
	hub.registerClient(client)
	drainWelcomeMessage(client)

	hub.BroadcastNotification("Tareas Pendientes", "Tienes 3 tareas pendientes para hoy.", "list-checks")

	select {
	case msg := <-client.Send:
		var received Message
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("Failed to unmarshal: %v", err)
		}
		if received.Type != "notification" {
			t.Errorf("Expected type 'notification', got %s", received.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("No message received")
	}
}

// Test WebSocket connection management
func TestWebSocketConnectionManagement(t *testing.T) {
	hub := NewHub()

	if hub.GetConnectionCount() != 0 {
		t.Errorf("Initial connection count should be 0, got %d", hub.GetConnectionCount())
	}

	client1 := newTestClient(hub)
	client2 := newTestClient(hub)

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.GetConnectionCount() != 2 {
		t.Errorf("Connection count should be 2, got %d", hub.GetConnectionCount())
	}

	hub.unregisterClient(client1)

	if hub.GetConnectionCount() != 1 {
		t.Errorf("Connection count should be 1 after unregistering, got %d", hub.GetConnectionCount())
	}

	// Unregistering twice must not panic or double-close
	hub.unregisterClient(client1)

	if hub.GetConnectionCount() != 1 {
		t.Errorf("Connection count should still be 1, got %d", hub.GetConnectionCount())
	}
}

// Slow clients are dropped instead of blocking the broadcast
func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()

	slow := &Client{
		Send: make(chan []byte, 1),
		Hub:  hub,
	}
	hub.registerClient(slow)
	// Welcome message fills the 1-slot buffer; next broadcast cannot be delivered

	hub.BroadcastNotification("Hora de Cocinar", "Prepara la cena.", "chef-hat")

	if hub.GetConnectionCount() != 0 {
		t.Errorf("Slow client should have been dropped, count is %d", hub.GetConnectionCount())
	}
}
