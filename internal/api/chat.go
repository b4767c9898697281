package api

import (
	"context"
	"fmt"
)

// ListChatSessions fetches a page of companion chat sessions (without
// message bodies).
func (c *Client) ListChatSessions(ctx context.Context, page, limit int) ([]ChatSession, int, error) {
	var resp struct {
		Sessions []ChatSession `json:"sessions"`
		Total    int           `json:"total"`
	}
	path := fmt.Sprintf("/chat/sessions?page=%d&limit=%d", page, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Sessions, resp.Total, nil
}

// CreateChatSession starts a new conversation.
func (c *Client) CreateChatSession(ctx context.Context, title string) (*ChatSession, error) {
	var s ChatSession
	body := map[string]string{"title": title}
	if err := c.post(ctx, "/chat/sessions", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetChatSession fetches one session with its full message history.
func (c *Client) GetChatSession(ctx context.Context, id string) (*ChatSession, error) {
	var s ChatSession
	if err := c.get(ctx, "/chat/sessions/"+id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SendChatMessage posts a user message. The response always carries the
// stored user message; the assistant reply is absent when generation
// failed upstream, which is still a successful send.
func (c *Client) SendChatMessage(ctx context.Context, sessionID, content string) (*SendMessageResponse, error) {
	var resp SendMessageResponse
	body := map[string]string{"content": content}
	if err := c.post(ctx, "/chat/sessions/"+sessionID+"/messages", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteChatSession removes a conversation.
func (c *Client) DeleteChatSession(ctx context.Context, id string) error {
	return c.delete(ctx, "/chat/sessions/"+id)
}
