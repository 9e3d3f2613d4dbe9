package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewsync/internal/domain"
)

func TestName(t *testing.T) {
	name, err := Name("dashboard", "sites")
	require.NoError(t, err)
	assert.Equal(t, "dashboard-dataviews-view-sites", name)

	_, err = Name("dashboard", " ")
	assert.ErrorIs(t, err, domain.ErrEmptySlug)

	_, err = Name("", "sites")
	assert.Error(t, err)
}

func TestParseName(t *testing.T) {
	ns, slug, ok := ParseName("agency-dataviews-view-plugins")
	require.True(t, ok)
	assert.Equal(t, "agency", ns)
	assert.Equal(t, "plugins", slug)

	for _, name := range []string{"theme", "-dataviews-view-sites", "dashboard-dataviews-view-"} {
		_, _, ok := ParseName(name)
		assert.False(t, ok, name)
	}

	assert.Equal(t, "dashboard-dataviews-view-", Prefix("dashboard"))
}
