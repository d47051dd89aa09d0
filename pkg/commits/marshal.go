package commits

import (
	"encoding/json"
)

// MarshalJSON serializes the plain-data view only.
func (c *Commit) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.View())
}

// MarshalYAML serializes the plain-data view only.
func (c *Commit) MarshalYAML() (any, error) {
	return c.View(), nil
}
