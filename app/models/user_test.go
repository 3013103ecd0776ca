package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInterestSet(t *testing.T) {
	u := &User{Interests: " Beaches, hiking ,,FOOD , hiking"}

	set := u.InterestSet()
	assert.Len(t, set, 3)
	assert.Contains(t, set, "beaches")
	assert.Contains(t, set, "hiking")
	assert.Contains(t, set, "food")
}

func TestUserValidate(t *testing.T) {
	u := &User{ID: "u-1", Email: "a@x.com", Status: STATUS_ACTIVE}
	require.NoError(t, u.Validate())

	u.Email = "not-an-email"
	assert.Error(t, u.Validate())

	u = &User{Email: "a@x.com"}
	assert.Error(t, u.Validate())
}

func TestCatalogItemTagNames(t *testing.T) {
	item := &CatalogItem{Tags: []Tag{{Name: "beach"}, {Name: "food"}}}
	assert.Equal(t, []string{"beach", "food"}, item.TagNames())
}
