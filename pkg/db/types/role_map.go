package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Permissions is the per-movie capability bundle stored inside a crew
// entry. It is replaced wholesale on update, never merged field by field.
type Permissions struct {
	Video   bool `json:"video"`
	Image   bool `json:"image"`
	Live    bool `json:"live"`
	Scripts bool `json:"scripts"`
	Crew    bool `json:"crew"`
}

// AllGranted returns the full capability bundle used for creator grants.
func AllGranted() Permissions {
	return Permissions{Video: true, Image: true, Live: true, Scripts: true, Crew: true}
}

// RoleEntry captures one member's role on one movie.
type RoleEntry struct {
	Contribution string      `json:"contribution"`
	Permissions  Permissions `json:"permissions"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// RoleMap is a JSONB column mapping movie id to the member's role on it.
type RoleMap map[string]RoleEntry

func (m *RoleMap) Scan(src any) error {
	if src == nil {
		*m = RoleMap{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("RoleMap: unsupported Scan type %T", src)
	}

	if len(data) == 0 {
		*m = RoleMap{}
		return nil
	}

	out := RoleMap{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("RoleMap: decode: %w", err)
	}
	*m = out
	return nil
}

func (m RoleMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("RoleMap: encode: %w", err)
	}
	return string(data), nil
}
