package marc21

import (
	"encoding/json"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// MetadataValue
///////////////////////////////////////////////////////////////////////////////

// MetadataValue is the service-facing holder pairing a record's XML
// string with its JSON mapping, as the service layer embeds them into
// its own persisted structure. The setters take dynamically typed values
// because the service layer hands through untyped payloads; a wrong
// underlying type fails with ErrTypeMismatch and no coercion.
type MetadataValue struct {
	xml  string
	json map[string]any
}

// NewMetadataValue returns a fresh, empty holder. Callers needing a
// default value must call this per use; holders are never shared.
func NewMetadataValue() *MetadataValue {
	return &MetadataValue{json: map[string]any{}}
}

// XML returns the held XML string.
func (v *MetadataValue) XML() string {
	return v.xml
}

// JSON returns the held JSON mapping.
func (v *MetadataValue) JSON() map[string]any {
	return v.json
}

// SetXML stores an XML string. Anything but a string fails.
func (v *MetadataValue) SetXML(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("xml must be a string, got %T: %w", value, ErrTypeMismatch)
	}
	v.xml = s
	return nil
}

// SetJSON stores a JSON mapping. Anything but a map[string]any fails.
func (v *MetadataValue) SetJSON(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("json must be a map, got %T: %w", value, ErrTypeMismatch)
	}
	v.json = m
	return nil
}

// FromMetadata captures the current XML and mapping forms of a document
// into a fresh holder.
func FromMetadata(m *Metadata) (*MetadataValue, error) {
	s, err := m.JSONString()
	if err != nil {
		return nil, err
	}
	mapping := map[string]any{}
	if err := json.Unmarshal([]byte(s), &mapping); err != nil {
		return nil, err
	}
	v := NewMetadataValue()
	v.xml = m.XML()
	v.json = mapping
	return v, nil
}
