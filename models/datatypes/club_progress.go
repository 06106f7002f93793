package datatypes

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type LegVolume struct {
	LegOwnerID int64           `json:"leg_owner_id"`
	Volume     decimal.Decimal `json:"volume"`
}

// ClubProgress is the snapshot of the last club evaluation of a member.
type ClubProgress struct {
	Legs        []LegVolume     `json:"legs"`
	TotalVolume decimal.Decimal `json:"total_volume"`
	Qualified   bool            `json:"qualified"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
}

// Value return json value, implement driver.Valuer interface
func (m ClubProgress) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	return string(data), err
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (m *ClubProgress) Scan(val interface{}) error {
	if val == nil {
		*m = ClubProgress{}
		return nil
	}
	var ba []byte
	switch v := val.(type) {
	case []byte:
		ba = v
	case string:
		ba = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", val))
	}
	t := ClubProgress{}
	err := json.Unmarshal(ba, &t)
	*m = t
	return err
}

// GormDataType gorm common data type
func (m ClubProgress) GormDataType() string {
	return "json"
}

// GormDBDataType gorm db data type
func (ClubProgress) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "JSON"
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	}
	return ""
}
