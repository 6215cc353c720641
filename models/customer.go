package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     *string    `json:"last_name" db:"last_name"`
	Email        *string    `json:"email" db:"email"`
	Phone        *string    `json:"phone" db:"phone"`
	Address      *string    `json:"address" db:"address"`
	City         *string    `json:"city" db:"city"`
	State        *string    `json:"state" db:"state"`
	Country      *string    `json:"country" db:"country"`
	PostalCode   *string    `json:"postal_code" db:"postal_code"`
	Status       string     `json:"status" db:"status"` // lead, prospect, customer, inactive
	Source       string     `json:"source" db:"source"` // walk-in, exhibition, social_media, referral, etc.
	AssignedRep  *uuid.UUID `json:"assigned_rep" db:"assigned_rep"`
	Interests    string     `json:"interests" db:"interests"` // JSONB array of product interest records
	Notes        *string    `json:"notes" db:"notes"`
	NextFollowUp *time.Time `json:"next_follow_up" db:"next_follow_up"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastContact  *time.Time `json:"last_contact" db:"last_contact"`
}

// FullName joins first and last name for display and opportunity titles.
func (c *Customer) FullName() string {
	if c.LastName != nil && *c.LastName != "" {
		return c.FirstName + " " + *c.LastName
	}
	return c.FirstName
}

func (Customer) TableName() string {
	return "customers"
}

func (Customer) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		first_name TEXT NOT NULL,
		last_name TEXT,
		email TEXT,
		phone TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		country TEXT,
		postal_code TEXT,
		status TEXT DEFAULT 'lead' CHECK (status IN ('lead', 'prospect', 'customer', 'inactive')),
		source TEXT DEFAULT 'walk-in',
		assigned_rep UUID REFERENCES team_members(id) ON DELETE SET NULL,
		interests JSONB DEFAULT '[]',
		notes TEXT,
		next_follow_up TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		last_contact TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
	CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone);
	CREATE INDEX IF NOT EXISTS idx_customers_status ON customers(status);
	CREATE INDEX IF NOT EXISTS idx_customers_assigned_rep ON customers(assigned_rep);
	`
}
