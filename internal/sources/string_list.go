package sources

import (
	"encoding/json"
	"fmt"
)

// StringList is a configuration value written either as a single string or as
// a list of strings. It always serializes as a list.
type StringList []string

// UnmarshalJSON accepts a JSON string or an array of strings.
func (list *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*list = nil
			return nil
		}
		*list = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a string or an array of strings: %w", err)
	}
	if len(many) == 0 {
		*list = nil
		return nil
	}
	*list = many
	return nil
}

// MarshalJSON always writes an array, never null.
func (list StringList) MarshalJSON() ([]byte, error) {
	if list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(list))
}

// IsEmpty reports whether the list places no constraint.
func (list StringList) IsEmpty() bool {
	for _, value := range list {
		if value != "" {
			return false
		}
	}
	return true
}
