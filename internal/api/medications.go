package api

import (
	"context"
	"fmt"
)

// MedicationInput holds the writable fields of a medication schedule.
type MedicationInput struct {
	Name       string   `json:"name"`
	Dosage     string   `json:"dosage"`
	Frequency  string   `json:"frequency"`
	TimesOfDay []string `json:"timesOfDay,omitempty"`
	Active     bool     `json:"active"`
}

// ListMedications fetches a page of medication schedules.
func (c *Client) ListMedications(ctx context.Context, page, limit int) ([]Medication, int, error) {
	var resp struct {
		Medications []Medication `json:"medications"`
		Total       int          `json:"total"`
	}
	path := fmt.Sprintf("/medications?page=%d&limit=%d", page, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Medications, resp.Total, nil
}

// CreateMedication creates a medication schedule.
func (c *Client) CreateMedication(ctx context.Context, in MedicationInput) (*Medication, error) {
	var m Medication
	if err := c.post(ctx, "/medications", in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMedication updates a medication schedule.
func (c *Client) UpdateMedication(ctx context.Context, id string, in MedicationInput) (*Medication, error) {
	var m Medication
	if err := c.put(ctx, "/medications/"+id, in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMedication removes a medication schedule.
func (c *Client) DeleteMedication(ctx context.Context, id string) error {
	return c.delete(ctx, "/medications/"+id)
}

// LogDose records that a dose was taken now.
func (c *Client) LogDose(ctx context.Context, medicationID string) (*DoseLog, error) {
	var d DoseLog
	if err := c.post(ctx, "/medications/"+medicationID+"/doses", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
