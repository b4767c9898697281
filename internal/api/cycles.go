package api

import (
	"context"
	"fmt"
)

// CycleInput holds the writable fields of a cycle.
type CycleInput struct {
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	CycleLength int      `json:"cycleLength,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// ListCycles fetches a page of cycles.
func (c *Client) ListCycles(ctx context.Context, page, limit int) ([]Cycle, int, error) {
	var resp struct {
		Cycles []Cycle `json:"cycles"`
		Total  int     `json:"total"`
	}
	path := fmt.Sprintf("/cycles?page=%d&limit=%d", page, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Cycles, resp.Total, nil
}

// GetCycle fetches a single cycle by id.
func (c *Client) GetCycle(ctx context.Context, id string) (*Cycle, error) {
	var cy Cycle
	if err := c.get(ctx, "/cycles/"+id, &cy); err != nil {
		return nil, err
	}
	return &cy, nil
}

// CurrentCycle fetches the cycle covering today, or nil when none is active.
func (c *Client) CurrentCycle(ctx context.Context) (*Cycle, error) {
	var cy Cycle
	if err := c.get(ctx, "/cycles/current", &cy); err != nil {
		return nil, err
	}
	if cy.ID == "" {
		return nil, nil
	}
	return &cy, nil
}

// CreateCycle creates a new cycle.
func (c *Client) CreateCycle(ctx context.Context, in CycleInput) (*Cycle, error) {
	var cy Cycle
	if err := c.post(ctx, "/cycles", in, &cy); err != nil {
		return nil, err
	}
	return &cy, nil
}

// UpdateCycle updates an existing cycle.
func (c *Client) UpdateCycle(ctx context.Context, id string, in CycleInput) (*Cycle, error) {
	var cy Cycle
	if err := c.put(ctx, "/cycles/"+id, in, &cy); err != nil {
		return nil, err
	}
	return &cy, nil
}

// DeleteCycle removes a cycle.
func (c *Client) DeleteCycle(ctx context.Context, id string) error {
	return c.delete(ctx, "/cycles/"+id)
}
