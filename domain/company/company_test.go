package company

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompanyDefaults(t *testing.T) {
	c, err := New("Acme", "", "fintech")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.ID, "comp_"))
	assert.Equal(t, "target", c.Status)
	assert.Equal(t, 5, c.Priority)

	_, err = New("", "", "")
	assert.Error(t, err)
}

func TestLinkApplicationIdempotent(t *testing.T) {
	c, err := New("Acme", "", "")
	require.NoError(t, err)

	c.LinkApplication("app_1")
	c.LinkApplication("app_1")
	c.LinkApplication("app_2")

	assert.Equal(t, []string{"app_1", "app_2"}, c.ApplicationIDs)
}

func TestSetPriorityClamps(t *testing.T) {
	c, err := New("Acme", "", "")
	require.NoError(t, err)

	c.SetPriority(12)
	assert.Equal(t, 10, c.Priority)
	c.SetPriority(0)
	assert.Equal(t, 1, c.Priority)
}

func TestText(t *testing.T) {
	c, err := New("Acme", "target", "fintech")
	require.NoError(t, err)
	c.TechStack = []string{"Go", "Postgres"}
	c.CultureNotes = "remote friendly"

	text := Text(c)
	assert.Contains(t, text, "Company: Acme")
	assert.Contains(t, text, "Industry: fintech")
	assert.Contains(t, text, "Tech Stack: Go, Postgres")
	assert.Contains(t, text, "Culture: remote friendly")
}
