package api

import (
	"context"
	"fmt"
)

// ListCommunities fetches a page of forum communities.
func (c *Client) ListCommunities(ctx context.Context, page, limit int) ([]Community, int, error) {
	var resp struct {
		Communities []Community `json:"communities"`
		Total       int         `json:"total"`
	}
	path := fmt.Sprintf("/communities?page=%d&limit=%d", page, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Communities, resp.Total, nil
}

// JoinCommunity adds the current user to a community.
func (c *Client) JoinCommunity(ctx context.Context, id string) (*Community, error) {
	var cm Community
	if err := c.post(ctx, "/communities/"+id+"/join", nil, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

// LeaveCommunity removes the current user from a community.
func (c *Client) LeaveCommunity(ctx context.Context, id string) error {
	return c.delete(ctx, "/communities/"+id+"/membership")
}

// ListPosts fetches a page of posts in a community.
func (c *Client) ListPosts(ctx context.Context, communityID string, page, limit int) ([]Post, int, error) {
	var resp struct {
		Posts []Post `json:"posts"`
		Total int    `json:"total"`
	}
	path := fmt.Sprintf("/communities/%s/posts?page=%d&limit=%d", communityID, page, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Posts, resp.Total, nil
}

// CreatePost publishes a post in a community.
func (c *Client) CreatePost(ctx context.Context, communityID, content string) (*Post, error) {
	var p Post
	body := map[string]string{"content": content}
	if err := c.post(ctx, "/communities/"+communityID+"/posts", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
