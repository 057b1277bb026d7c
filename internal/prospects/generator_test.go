package prospects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCount(t *testing.T) {
	g := New(1)
	batch := g.Generate(20, true)
	require.Len(t, batch, 20)

	for _, p := range batch {
		assert.NotEmpty(t, p.FirstName)
		assert.NotEmpty(t, p.LastName)
		assert.NotEmpty(t, p.Company)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Country)
		assert.NotEmpty(t, p.SellingIntent)
	}
}

func TestGenerateUniqueCompanies(t *testing.T) {
	g := New(7)
	batch := g.Generate(50, false)

	seen := make(map[string]bool)
	for _, p := range batch {
		assert.False(t, seen[p.Company], "duplicate company %q", p.Company)
		seen[p.Company] = true
	}
}

func TestGenerateReproducibleWithSeed(t *testing.T) {
	first := New(42).Generate(10, true)
	second := New(42).Generate(10, true)
	assert.Equal(t, first, second)
}

func TestGenerateDiverseSpreadsRoleTypes(t *testing.T) {
	g := New(3)
	batch := g.Generate(30, true)

	byType := map[string]int{}
	for _, p := range batch {
		for roleType, pool := range roles {
			for _, role := range pool {
				if p.Title == role {
					byType[roleType]++
				}
			}
		}
	}

	// 30 prospects split evenly across the three role types.
	for _, roleType := range roleTypes {
		assert.Equal(t, 10, byType[roleType], "role type %s", roleType)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "E-Commerce", titleCase("e-commerce"))
	assert.Equal(t, "Financial Services", titleCase("financial services"))
	assert.Equal(t, "Technology", titleCase("technology"))
	assert.Equal(t, "", titleCase(""))
}
