package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	doc := `{"id": "{{APP_ID}}", "name": "{{APP_NAME}}"}`
	out, err := Render(doc, map[string]string{
		"APP_ID":   "11111111-2222-3333-4444-555555555555",
		"APP_NAME": "genie-bot",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"id": "11111111-2222-3333-4444-555555555555", "name": "genie-bot"}`, out)
}

func TestRenderIsLiteral(t *testing.T) {
	// Values are inserted verbatim: no escaping, no nested expansion.
	doc := `{"resource": "{{RESOURCE}}"}`
	out, err := Render(doc, map[string]string{"RESOURCE": `api://botid-{{APP_ID}}`})
	// The inserted value itself looks like a placeholder, which the
	// unresolved check must flag rather than expand.
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestRenderFailsOnUnresolvedPlaceholder(t *testing.T) {
	doc := `{"id": "{{APP_ID}}", "privacy": "{{DEVELOPER_PRIVACY}}"}`
	_, err := Render(doc, map[string]string{"APP_ID": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEVELOPER_PRIVACY")
}

func TestRenderRepeatedPlaceholder(t *testing.T) {
	doc := `{{APP_ID}}-{{APP_ID}}`
	out, err := Render(doc, map[string]string{"APP_ID": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc-abc", out)
}

func TestPlaceholders(t *testing.T) {
	doc := `{{B}} {{A}} {{B}} {{not_a_placeholder}}`
	assert.Equal(t, []string{"A", "B"}, Placeholders(doc))
}
