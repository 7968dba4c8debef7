package service

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
)

// ExpoPushClient sends push notifications via Expo's Push API.
//
// Expo Push is simpler than FCM for React Native + Expo projects:
// - Works with Expo Go (no standalone build needed for testing)
// - No Apple Developer account needed
// - No APNs/FCM configuration required
//
// How it works:
// 1. The app obtains an Expo Push Token (looks like "ExponentPushToken[xxx]")
// 2. The app registers the token with this backend (device_tokens table)
// 3. The due-task sweep POSTs batches of messages to Expo's API
// 4. Expo handles delivery to both iOS and Android
type ExpoPushClient struct {
	httpClient *http.Client
}

// PushMessage is one message in an Expo Push API batch. Every due task
// gets its own message, so title and body are per-entry rather than
// shared across a token list.
type PushMessage struct {
	To       string                 `json:"to"`
	Title    string                 `json:"title,omitempty"`
	Body     string                 `json:"body"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Sound    string                 `json:"sound,omitempty"`
	Priority string                 `json:"priority,omitempty"`
}

// ExpoPushResponse is the response from Expo's API.
type ExpoPushResponse struct {
	Data []ExpoPushTicket `json:"data"`
}

type ExpoPushTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id"`     // Ticket ID for receipt checking
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"` // "DeviceNotRegistered", "MessageTooBig", etc.
	} `json:"details,omitempty"`
}

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoChunkSize is Expo's documented per-request message limit.
const ExpoChunkSize = 100

// NewExpoPushClient creates a new Expo Push client.
// Unlike FCM, Expo Push doesn't require any credentials!
func NewExpoPushClient() *ExpoPushClient {
	return &ExpoPushClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsExpoPushToken reports whether token looks like an Expo push token.
// Anything else would be rejected by the API, so callers skip it up front.
func IsExpoPushToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") ||
		strings.HasPrefix(token, "ExpoPushToken[")
}

// ChunkMessages splits messages into batches of at most size entries.
func ChunkMessages(messages []PushMessage, size int) [][]PushMessage {
	if size <= 0 {
		size = ExpoChunkSize
	}
	chunks := make([][]PushMessage, 0, (len(messages)+size-1)/size)
	for len(messages) > size {
		chunks = append(chunks, messages[:size])
		messages = messages[size:]
	}
	if len(messages) > 0 {
		chunks = append(chunks, messages)
	}
	return chunks
}

// Send posts one batch of messages to Expo's Push API. Callers are
// responsible for keeping the batch within ExpoChunkSize.
func (c *ExpoPushClient) Send(ctx context.Context, messages []PushMessage) error {
	if len(messages) == 0 {
		return nil
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, expoPushURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	// Parse the tickets to surface per-message errors
	var pushResp ExpoPushResponse
	if err := json.Unmarshal(respBody, &pushResp); err != nil {
		log.Printf("[ExpoPush] Failed to parse response: %v", err)
		return nil // Don't fail the batch, push was accepted
	}

	successCount := 0
	failCount := 0
	for i, ticket := range pushResp.Data {
		if ticket.Status == "ok" {
			successCount++
		} else {
			failCount++
			log.Printf("[ExpoPush] Message %d failed: %s (error: %s)",
				i, ticket.Message, ticket.Details.Error)
		}
	}

	log.Printf("[ExpoPush] Sent %d messages: %d success, %d failed",
		len(messages), successCount, failCount)

	return nil
}
