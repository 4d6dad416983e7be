package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// AdminRole is the role an authenticated dashboard principal acts under
type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "ADMIN"
	AdminRoleViewer AdminRole = "VIEWER"
)

// Valid checks if the role is valid
func (r AdminRole) Valid() bool {
	switch r {
	case AdminRoleAdmin, AdminRoleViewer:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for AdminRole
func (r *AdminRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = AdminRole(v)
	case []byte:
		*r = AdminRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AdminRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AdminRole
func (r AdminRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid AdminRole: %s", r)
	}
	return string(r), nil
}

type Admin struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Username string    `gorm:"size:255;not null;uniqueIndex:uk_admins_username" json:"username"`
	Role     AdminRole `gorm:"size:16;not null;default:'VIEWER'" json:"role"`

	IsActive  *bool     `gorm:"default:true;index:idx_admins_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}
