package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidroman0O/goservice"
)

const catalogYAML = `
en:
  actions:
    failure: "Something went wrong"
    success: "Done"
    retries: 3
    billing/charge_card:
      declined: "Your card was declined"
      failure: "The charge failed"
fr:
  actions:
    failure: "Une erreur est survenue"
`

type chargeCard struct {
	goservice.BaseAction
}

var chargeContract = goservice.NewContract().Named("billing.ChargeCard")

func (chargeCard) Contract() *goservice.Contract { return chargeContract }

func (chargeCard) Execute(ctx *goservice.Context) (any, error) {
	key, _ := goservice.GetOrDefault(ctx, "reason", "declined")
	return nil, ctx.FailKey(goservice.Key(key))
}

func newCatalog(t *testing.T, locale string, opts ...Option) *Catalog {
	t.Helper()
	c := New(locale, opts...)
	require.NoError(t, c.LoadBytes([]byte(catalogYAML)))
	return c
}

func TestCatalogFlattensScopes(t *testing.T) {
	c := newCatalog(t, "en")

	msg, ok := c.Lookup("en", "actions.billing/charge_card.declined")
	assert.True(t, ok)
	assert.Equal(t, "Your card was declined", msg)

	msg, ok = c.Lookup("en", "actions.retries")
	assert.True(t, ok)
	assert.Equal(t, "3", msg)

	_, ok = c.Lookup("fr", "actions.success")
	assert.False(t, ok)

	assert.Equal(t, []string{"en", "fr"}, c.Locales())
}

func TestCatalogTranslate(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		key      string
		defaults []string
		want     string
	}{
		{"primary key", "en", "actions.billing/charge_card.declined", nil, "Your card was declined"},
		{"first matching default", "en", "actions.billing/charge_card.expired", []string{"actions.expired", "actions.billing/charge_card.failure", "actions.failure"}, "The charge failed"},
		{"unknown key", "en", "actions.nope", []string{"actions.other"}, "actions.nope"},
		{"other locale", "fr", "actions.declined", []string{"actions.failure"}, "Une erreur est survenue"},
		{"missing locale", "de", "actions.declined", []string{"actions.failure"}, "actions.declined"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newCatalog(t, tc.locale)
			assert.Equal(t, tc.want, c.Translate(tc.key, tc.defaults))
		})
	}
}

func TestCatalogFallbackLocale(t *testing.T) {
	c := newCatalog(t, "fr", WithFallbackLocale("en"))

	assert.Equal(t, "Une erreur est survenue", c.Translate("actions.declined", []string{"actions.failure"}))
	assert.Equal(t, "Done", c.Translate("actions.success", nil))
}

func TestCatalogSetLocaleAndAdd(t *testing.T) {
	c := newCatalog(t, "en")
	c.SetLocale("fr")
	assert.Equal(t, "fr", c.Locale())

	c.Add("fr", "actions.success", "Terminé")
	assert.Equal(t, "Terminé", c.Translate("actions.success", nil))
}

func TestCatalogLaterDocumentsOverwrite(t *testing.T) {
	c := newCatalog(t, "en")
	require.NoError(t, c.LoadBytes([]byte("en:\n  actions:\n    failure: Oops\n")))

	assert.Equal(t, "Oops", c.Translate("actions.failure", nil))
	assert.Equal(t, "Done", c.Translate("actions.success", nil))
}

func TestCatalogInvalidDocuments(t *testing.T) {
	c := New("en")
	assert.Error(t, c.LoadBytes([]byte("en: [unterminated")))

	err := c.LoadBytes([]byte("en: just a string\n"))
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	c, err := Load("en", []string{path})
	require.NoError(t, err)
	assert.Equal(t, "Done", c.Translate("actions.success", nil))

	_, err = Load("en", []string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestCatalogAsContextTranslator(t *testing.T) {
	c := newCatalog(t, "en")

	ctx, err := goservice.Call(chargeCard{}, nil, goservice.WithTranslator(c))
	require.NoError(t, err)
	assert.Equal(t, "Your card was declined", ctx.Message())
	assert.Equal(t, goservice.Key("declined"), ctx.StatusKey())

	ctx, err = goservice.Call(chargeCard{}, map[string]any{"reason": "expired"}, goservice.WithTranslator(c))
	require.NoError(t, err)
	assert.Equal(t, "The charge failed", ctx.Message())
}
