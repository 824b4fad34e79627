package api

import (
	"context"
	"strings"
)

// RemoteResponder отвечает на сообщения через POST /api/chat.
type RemoteResponder struct {
	Client *Client
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Respond отправляет сообщение серверному ассистенту.
func (r RemoteResponder) Respond(ctx context.Context, message string) (string, error) {
	var out chatResponse
	if _, err := r.Client.PostJSON(ctx, "/api/chat", chatRequest{Message: strings.TrimSpace(message)}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}
