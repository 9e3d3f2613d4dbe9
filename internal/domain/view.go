package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

type ViewType string

const (
	ViewTypeTable ViewType = "table"
	ViewTypeGrid  ViewType = "grid"
	ViewTypeList  ViewType = "list"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Operator string

const (
	OperatorIs       Operator = "is"
	OperatorIsNot    Operator = "isNot"
	OperatorIsAny    Operator = "isAny"
	OperatorIsNone   Operator = "isNone"
	OperatorIsAll    Operator = "isAll"
	OperatorIsNotAll Operator = "isNotAll"
)

// DefaultPage is the page a view lands on when nothing else says otherwise.
const DefaultPage = 1

type Layout struct {
	Density      string         `json:"density,omitempty" yaml:"density,omitempty" validate:"omitempty,oneof=compact balanced comfortable"`
	ColumnWidths map[string]int `json:"columnWidths,omitempty" yaml:"columnWidths,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	PreviewSize  int            `json:"previewSize,omitempty" yaml:"previewSize,omitempty" validate:"gte=0"`
}

type Sort struct {
	Field     string        `json:"field" yaml:"field" validate:"required"`
	Direction SortDirection `json:"direction" yaml:"direction" validate:"oneof=asc desc"`
}

// FilterValue is a list of values. A bare JSON string decodes as a single value.
type FilterValue []string

func (fv *FilterValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*fv = FilterValue{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("filter value must be a string or a list of strings: %w", err)
	}
	*fv = many
	return nil
}

type Filter struct {
	Field    string      `json:"field" yaml:"field" validate:"required"`
	Operator Operator    `json:"operator" yaml:"operator" validate:"oneof=is isNot isAny isNone isAll isNotAll"`
	Value    FilterValue `json:"value" yaml:"value"`
}

// PersistedView is the durable part of a View. Page and search never live here.
type PersistedView struct {
	Type    ViewType `json:"type" yaml:"type" validate:"oneof=table grid list"`
	Layout  *Layout  `json:"layout,omitempty" yaml:"layout,omitempty"`
	Sort    *Sort    `json:"sort,omitempty" yaml:"sort,omitempty"`
	Filters []Filter `json:"filters,omitempty" yaml:"filters,omitempty" validate:"dive"`
	PerPage int      `json:"perPage,omitempty" yaml:"perPage,omitempty" validate:"gte=0"`
	Fields  []string `json:"fields,omitempty" yaml:"fields,omitempty" validate:"dive,required"`
}

// View is what a collection screen renders from.
type View struct {
	PersistedView `yaml:",inline"`

	Page   int    `json:"page" yaml:"page,omitempty"`
	Search string `json:"search" yaml:"search,omitempty"`
}

func (v View) Persistable() PersistedView {
	return v.PersistedView.Clone()
}

func (p PersistedView) WithTransient(page int, search string) View {
	return View{
		PersistedView: p.Clone(),
		Page:          page,
		Search:        search,
	}
}

func (p PersistedView) Clone() PersistedView {
	out := p
	if p.Layout != nil {
		layout := *p.Layout
		layout.ColumnWidths = maps.Clone(p.Layout.ColumnWidths)
		out.Layout = &layout
	}
	if p.Sort != nil {
		sort := *p.Sort
		out.Sort = &sort
	}
	if p.Filters != nil {
		out.Filters = make([]Filter, len(p.Filters))
		for i, f := range p.Filters {
			f.Value = slices.Clone(f.Value)
			out.Filters[i] = f
		}
	}
	out.Fields = slices.Clone(p.Fields)
	return out
}

func (v View) Clone() View {
	out := v
	out.PersistedView = v.PersistedView.Clone()
	return out
}

// FilterFor returns the first filter on field.
func (p PersistedView) FilterFor(field string) (Filter, bool) {
	for _, f := range p.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return Filter{}, false
}

func (v View) Summary() string {
	parts := []string{string(v.Type)}

	if v.Sort != nil && v.Sort.Field != "" {
		parts = append(parts, fmt.Sprintf("sort:%s %s", v.Sort.Field, v.Sort.Direction))
	}
	for _, f := range v.Filters {
		parts = append(parts, fmt.Sprintf("%s %s [%s]", f.Field, f.Operator, strings.Join(f.Value, ",")))
	}
	if v.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", v.Search))
	}
	parts = append(parts, fmt.Sprintf("page:%d", v.Page))

	return strings.Join(parts, ", ")
}
