package purple

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	domsvc "github.com/wczubal1/GreenAgentWitty/internal/domain/service"
	applogger "github.com/wczubal1/GreenAgentWitty/pkg/logger"
)

// Client implements domain service.Messenger over the A2A JSON-RPC surface:
// one message/send call per assessment, new conversation each time.
type Client struct {
	http *resty.Client
	l    *applogger.Logger
}

// New creates a purple agent messenger with the given per-call timeout.
func New(timeout time.Duration, l *applogger.Logger) domsvc.Messenger {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c, l: l}
}

type rpcRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      string                 `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result"`
	Error   *rpcError       `json:"error"`
}

// Send posts the task payload as a user text message and returns the text
// of the agent's reply.
func (c *Client) Send(ctx context.Context, payload string, endpoint string) (string, error) {
	messageID := uuid.NewString()
	body := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "message/send",
		Params: map[string]interface{}{
			"message": map[string]interface{}{
				"kind":      "message",
				"role":      "user",
				"messageId": messageID,
				"parts": []map[string]interface{}{
					{"kind": "text", "text": payload},
				},
			},
		},
	}

	var parsed rpcResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		ForceContentType("application/json"). // decode even when the peer omits the JSON content type
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("purple agent call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("purple agent call: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("purple agent error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}

	text := extractText(parsed.Result)
	if text == "" {
		return "", fmt.Errorf("purple agent reply contained no text parts")
	}
	if c.l != nil {
		c.l.Debug("purple reply received",
			applogger.String("endpoint", endpoint),
			applogger.Int("bytes", len(text)),
		)
	}
	return text, nil
}

// extractText pulls concatenated text parts out of a message or task
// result, whichever the agent returned.
func extractText(result interface{}) string {
	obj, ok := result.(map[string]interface{})
	if !ok {
		return ""
	}
	if text := textFromParts(obj["parts"]); text != "" {
		return text
	}
	// Task result: prefer artifacts, fall back to the status message.
	if artifacts, ok := obj["artifacts"].([]interface{}); ok {
		for i := len(artifacts) - 1; i >= 0; i-- {
			if artifact, ok := artifacts[i].(map[string]interface{}); ok {
				if text := textFromParts(artifact["parts"]); text != "" {
					return text
				}
			}
		}
	}
	if status, ok := obj["status"].(map[string]interface{}); ok {
		if message, ok := status["message"].(map[string]interface{}); ok {
			return textFromParts(message["parts"])
		}
	}
	return ""
}

func textFromParts(v interface{}) string {
	parts, ok := v.([]interface{})
	if !ok {
		return ""
	}
	var out string
	for _, p := range parts {
		part, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		kind, _ := part["kind"].(string)
		if kind == "" {
			kind, _ = part["type"].(string)
		}
		if kind != "" && kind != "text" {
			continue
		}
		if text, ok := part["text"].(string); ok {
			out += text
		}
	}
	return out
}
