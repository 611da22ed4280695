package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PageActions are the per-page CRUD flags of the permission matrix.
type PageActions struct {
	View   bool `json:"view"`
	Edit   bool `json:"edit"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// PermissionMatrix maps moduleID -> pageID -> actions. Stored as a JSONB
// column; a missing entry means all actions denied.
type PermissionMatrix map[string]map[string]PageActions

func (m PermissionMatrix) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *PermissionMatrix) Scan(src interface{}) error {
	if src == nil {
		*m = PermissionMatrix{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for permission matrix")
	}
}

// User represents the users table. Accounts are linked 1:1 to employees via
// EmployeeID except for service accounts.
type User struct {
	ID           int64            `json:"id" gorm:"primaryKey"`
	Email        string           `json:"email" gorm:"uniqueIndex;not null"`
	Name         string           `json:"name" gorm:"not null"`
	PasswordHash string           `json:"-" gorm:"column:password_hash;not null"`
	Role         string           `json:"role" gorm:"not null;default:employee"`
	EmployeeID   *int64           `json:"employee_id,omitempty" gorm:"column:employee_id"`
	Permissions  PermissionMatrix `json:"permissions" gorm:"type:jsonb"`
	IsActive     bool             `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time        `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
