package goservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnderscore(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ChargeCard", "charge_card"},
		{"billing.ChargeCard", "billing/charge_card"},
		{"HTTPClient", "http_client"},
		{"ParseJSON", "parse_json"},
		{"Step2Go", "step2_go"},
		{"send-email", "send_email"},
		{"already_snake", "already_snake"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Underscore(tc.in))
		})
	}
}

func TestTranslationScope(t *testing.T) {
	assert.Equal(t, "actions", TranslationScope(nil))
	assert.Equal(t, "actions.billing/charge_card", TranslationScope(namedAction{}))
	assert.Equal(t, "actions.goservice/counting_action", TranslationScope(&countingAction{}))
}

func TestTranslationKeys(t *testing.T) {
	t.Run("with an action", func(t *testing.T) {
		primary, defaults := TranslationKeys(namedAction{}, "declined", StatusFailure)
		assert.Equal(t, "actions.billing/charge_card.declined", primary)
		assert.Equal(t, []string{
			"actions.declined",
			"actions.billing/charge_card.failure",
			"actions.failure",
		}, defaults)
	})

	t.Run("without an action", func(t *testing.T) {
		primary, defaults := TranslationKeys(nil, "declined", StatusSuccess)
		assert.Equal(t, "actions.declined", primary)
		assert.Equal(t, []string{"actions.success"}, defaults)
	})
}

// declineAction fails the context with a symbolic key
type declineAction struct {
	BaseAction
}

var declineContract = NewContract().Named("billing.ChargeCard")

func (declineAction) Contract() *Contract { return declineContract }

func (declineAction) Execute(ctx *Context) (any, error) {
	return nil, ctx.FailKey("declined", WithCode(402))
}

func TestFailKeyScopedToCurrentAction(t *testing.T) {
	tests := []struct {
		name         string
		translations map[string]string
		want         string
	}{
		{
			name:         "action scoped key",
			translations: map[string]string{"actions.billing/charge_card.declined": "scoped", "actions.declined": "root"},
			want:         "scoped",
		},
		{
			name:         "root key",
			translations: map[string]string{"actions.declined": "root", "actions.failure": "generic"},
			want:         "root",
		},
		{
			name:         "action scoped type",
			translations: map[string]string{"actions.billing/charge_card.failure": "charge failed", "actions.failure": "generic"},
			want:         "charge failed",
		},
		{
			name:         "root type",
			translations: map[string]string{"actions.failure": "generic"},
			want:         "generic",
		},
		{
			name:         "nothing translated",
			translations: map[string]string{},
			want:         "actions.billing/charge_card.declined",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &recordingTranslator{translations: tc.translations}
			ctx, err := Call(declineAction{}, nil, WithTranslator(tr))
			require.NoError(t, err)

			assert.Equal(t, tc.want, ctx.Message())
			assert.Equal(t, Key("declined"), ctx.StatusKey())
			assert.Equal(t, 402, ctx.FailureCode())
		})
	}
}
