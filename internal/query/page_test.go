package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triphub/internal/domain"
)

func TestPage_Clamp(t *testing.T) {
	b := Builder{MaxLimit: 100, DefaultLimit: 20}

	page, limit := b.Page(0, 1000)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, limit)

	page, limit = b.Page(-4, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = b.Page(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
}

func TestNormalize(t *testing.T) {
	b := fixedBuilder()
	f, err := b.Normalize(domain.FilterSpec{
		Origins:   []string{" Bangkok", "BANGKOK", ""},
		Providers: []string{"12GO"},
		DateRange: domain.DateRange{Preset: "Today"},
		Sort:      domain.Sort{Field: "nope"},
		Page:      0,
		Limit:     1000,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bangkok"}, f.Origins)
	assert.Equal(t, []string{"12go"}, f.Providers)
	assert.Nil(t, f.Destinations)
	assert.Equal(t, domain.DateRange{Start: "2025-03-10", End: "2025-03-10"}, f.DateRange)
	assert.Equal(t, domain.Sort{Field: "departure_time", Direction: "asc"}, f.Sort)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.Limit)

	again, err := b.Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestNormalize_UnknownProvider(t *testing.T) {
	_, err := fixedBuilder().Normalize(domain.FilterSpec{Providers: []string{"flixbus"}})
	assert.True(t, domain.IsValidation(err))
}

func TestNormalize_ResultWindow(t *testing.T) {
	b := Builder{MaxLimit: 100, MaxResultWindow: 1000}
	_, err := b.Normalize(domain.FilterSpec{Page: 10, Limit: 100})
	require.NoError(t, err)

	_, err = b.Normalize(domain.FilterSpec{Page: 11, Limit: 100})
	assert.True(t, domain.IsValidation(err))
}
