package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var viewValidate = validator.New(validator.WithRequiredStructEnabled())

func (p *PersistedView) Validate() error {
	if err := viewValidate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidView, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidView, err)
	}

	for i, f := range p.Filters {
		if len(f.Value) == 0 {
			return fmt.Errorf("%w: filter %d on %q has no value", ErrInvalidView, i, f.Field)
		}
	}

	return nil
}

// Validate checks the durable part and the transient fields.
func (v *View) Validate() error {
	if err := v.PersistedView.Validate(); err != nil {
		return err
	}
	if v.Page < 0 {
		return fmt.Errorf("%w: page cannot be negative", ErrInvalidView)
	}
	return nil
}

// DecodePersistedView strictly decodes a stored preference blob. Unknown keys,
// including transient ones, are rejected.
func DecodePersistedView(data []byte) (*PersistedView, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var pv PersistedView
	if err := dec.Decode(&pv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidView, err)
	}
	if err := pv.Validate(); err != nil {
		return nil, err
	}
	return &pv, nil
}

func EncodePersistedView(pv PersistedView) ([]byte, error) {
	data, err := json.Marshal(pv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal view: %w", err)
	}
	return data, nil
}
