package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Preference is one stored key-value preference. Value is opaque JSON.
type Preference struct {
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	Revision  string          `json:"revision"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const maxPreferenceNameLength = 200

func ValidatePreferenceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("preference name cannot be empty")
	}
	if len(name) > maxPreferenceNameLength {
		return errors.New("preference name cannot exceed 200 characters")
	}
	return nil
}
