package export

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"viewsync/internal/domain"
	"viewsync/internal/preference"
	"viewsync/internal/repository"
)

type MarkdownExporter struct {
	repo repository.PreferenceRepository
}

func NewMarkdownExporter(repo repository.PreferenceRepository) *MarkdownExporter {
	return &MarkdownExporter{repo: repo}
}

// ExportViewsToMarkdown renders stored views grouped by namespace. Other
// preferences are listed at the end by name only.
func (e *MarkdownExporter) ExportViewsToMarkdown(ctx context.Context, w io.Writer, filter repository.PreferenceFilter) error {
	prefs, err := e.repo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}

	byNamespace := make(map[string][]*domain.Preference)
	var others []string
	for _, p := range prefs {
		if ns, _, ok := preference.ParseName(p.Name); ok {
			byNamespace[ns] = append(byNamespace[ns], p)
		} else {
			others = append(others, p.Name)
		}
	}

	namespaces := make([]string, 0, len(byNamespace))
	for ns := range byNamespace {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	fmt.Fprintln(w, "# Saved views")
	fmt.Fprintln(w)

	if len(namespaces) == 0 {
		fmt.Fprintln(w, "_No saved views._")
		fmt.Fprintln(w)
	}

	for _, ns := range namespaces {
		fmt.Fprintf(w, "## %s (%d)\n\n", ns, len(byNamespace[ns]))
		fmt.Fprintln(w, "| View | Layout | Updated |")
		fmt.Fprintln(w, "|------|--------|---------|")
		for _, p := range byNamespace[ns] {
			_, slug, _ := preference.ParseName(p.Name)
			fmt.Fprintf(w, "| %s | %s | %s |\n",
				escapeCell(slug), escapeCell(summarize(p)), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w)
	}

	if len(others) > 0 {
		fmt.Fprintln(w, "## Other preferences")
		fmt.Fprintln(w)
		for _, name := range others {
			fmt.Fprintf(w, "- `%s`\n", name)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func summarize(p *domain.Preference) string {
	pv, err := domain.DecodePersistedView(p.Value)
	if err != nil {
		return "invalid view"
	}
	return pv.WithTransient(domain.DefaultPage, "").Summary()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
