package display

import (
	"fmt"
	"strings"
	"time"

	"viewsync/internal/domain"
)

func GetTypeIcon(viewType domain.ViewType) string {
	switch viewType {
	case domain.ViewTypeTable:
		return "▤"
	case domain.ViewTypeGrid:
		return "▦"
	case domain.ViewTypeList:
		return "≡"
	default:
		return "?"
	}
}

func GetSortArrow(direction domain.SortDirection) string {
	switch direction {
	case domain.SortAsc:
		return "↑"
	case domain.SortDesc:
		return "↓"
	default:
		return ""
	}
}

func FormatSort(sort *domain.Sort) string {
	if sort == nil || sort.Field == "" {
		return "-"
	}
	return strings.TrimSpace(sort.Field + " " + GetSortArrow(sort.Direction))
}

func FormatFilters(filters []domain.Filter) string {
	if len(filters) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, fmt.Sprintf("%s %s %s", f.Field, f.Operator, strings.Join(f.Value, "|")))
	}
	return strings.Join(parts, "; ")
}

func FormatSearch(search string) string {
	if search == "" {
		return "-"
	}
	return fmt.Sprintf("%q", search)
}

// FormatAge renders how long ago t was, relative to now.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := now.Sub(t)
	if diff < 0 {
		return t.Format("2006-01-02")
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}

	days := int(diff.Hours() / 24)
	if days == 1 {
		return "Yesterday"
	} else if days <= 7 {
		return fmt.Sprintf("%dd ago", days)
	}

	return t.Format("2006-01-02")
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
