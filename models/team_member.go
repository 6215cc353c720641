package models

import (
	"time"

	"github.com/google/uuid"
)

type TeamMember struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"` // manager, inhouse_sales, tele_caller, marketing
	Store     *string   `json:"store" db:"store"`
	Avatar    *string   `json:"avatar" db:"avatar"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

func (TeamMember) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		full_name TEXT NOT NULL,
		email TEXT UNIQUE,
		phone TEXT,
		role TEXT DEFAULT 'inhouse_sales',
		store TEXT,
		avatar TEXT,
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_team_members_email ON team_members(email);
	CREATE INDEX IF NOT EXISTS idx_team_members_role ON team_members(role);
	`
}
