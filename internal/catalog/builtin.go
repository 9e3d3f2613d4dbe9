package catalog

import "viewsync/internal/domain"

// Builtin is the catalog used when no views file is configured.
func Builtin() *Catalog {
	c, err := New(
		Entry{
			Slug:  "sites",
			Title: "Sites",
			DefaultView: domain.View{
				PersistedView: domain.PersistedView{
					Type:    domain.ViewTypeTable,
					Layout:  &domain.Layout{Density: "balanced"},
					Sort:    &domain.Sort{Field: "last-publish", Direction: domain.SortDesc},
					PerPage: 50,
					Fields:  []string{"site", "plan", "status", "last-publish"},
				},
				Page: 1,
			},
			FilterFields: []string{"plan", "status"},
			SortFields:   []string{"last-publish", "site", "plan"},
		},
		Entry{
			Slug:  "domains",
			Title: "Domains",
			DefaultView: domain.View{
				PersistedView: domain.PersistedView{
					Type:    domain.ViewTypeTable,
					Sort:    &domain.Sort{Field: "domain", Direction: domain.SortAsc},
					PerPage: 25,
					Fields:  []string{"domain", "site", "expires", "status"},
				},
				Page: 1,
			},
			FilterFields: []string{"domainName", "status"},
			SortFields:   []string{"domain", "expires", "site"},
		},
		Entry{
			Slug:  "plugins",
			Title: "Plugins",
			DefaultView: domain.View{
				PersistedView: domain.PersistedView{
					Type:    domain.ViewTypeGrid,
					Layout:  &domain.Layout{PreviewSize: 230},
					Sort:    &domain.Sort{Field: "name", Direction: domain.SortAsc},
					PerPage: 24,
				},
				Page: 1,
			},
			FilterFields: []string{"category"},
			SortFields:   []string{"name", "updated", "installs"},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}
