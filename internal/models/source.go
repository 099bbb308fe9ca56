package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DataSource type constants
const (
	DataSourceTypeNews      = "news"
	DataSourceTypeFinancial = "financial"
	DataSourceTypeSearch    = "search"
	DataSourceTypeSocial    = "social"
	DataSourceTypeCustom    = "custom"
)

// DataSource represents a configured data source. The upstream agent service
// owns persistence and consistency of this entity; this application only
// reads and writes it through proxy calls.
type DataSource struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name" validate:"required"`
	Type        string                 `json:"type" validate:"required,oneof=news financial search social custom"`
	Status      string                 `json:"status,omitempty"`
	LastSync    string                 `json:"last_sync,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"` // Opaque key/value map, may include secrets
	Description string                 `json:"description,omitempty"`
	Category    string                 `json:"category,omitempty"`
	CreatedAt   time.Time              `json:"created_at,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the data source configuration
func (d *DataSource) Validate() error {
	if err := validate.Struct(d); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			field := errs[0]
			if field.Tag() == "required" {
				return fmt.Errorf("%s is required", jsonFieldName(field.Field()))
			}
			return fmt.Errorf("invalid %s: %q", jsonFieldName(field.Field()), field.Value())
		}
		return err
	}
	return nil
}

// jsonFieldName maps struct field names to their wire names for error messages
func jsonFieldName(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Type":
		return "type"
	default:
		return field
	}
}

// Normalize applies display defaults for fields the upstream may omit
func (d *DataSource) Normalize() {
	if d.Status == "" {
		d.Status = "inactive"
	}
	if d.LastSync == "" {
		d.LastSync = NeverSynced
	}
	if d.Category == "" {
		d.Category = "general"
	}
	if d.Config == nil {
		d.Config = make(map[string]interface{})
	}
}
