package model

import "time"

type (
	// A Model defines the generic methods implemented by all the database's models.
	Model interface {
		GetID() string
		SetID(id string)
		SetCreatedAt(t time.Time)
		SetUpdatedAt(t time.Time)
	}

	// Base holds the common fields of the database's models.
	Base struct {
		ID        string    `json:"id"         storm:"id"`
		CreatedAt time.Time `json:"created_at" storm:"index"`
		UpdatedAt time.Time `json:"updated_at" storm:"index"`
	}
)

// GetID returns the model's identifier.
func (m *Base) GetID() string {
	return m.ID
}

// SetID defines the model's identifier.
func (m *Base) SetID(id string) {
	m.ID = id
}

// SetCreatedAt defines the model's creation time.
func (m *Base) SetCreatedAt(t time.Time) {
	m.CreatedAt = t
}

// SetUpdatedAt defines the model's last update time.
func (m *Base) SetUpdatedAt(t time.Time) {
	m.UpdatedAt = t
}
