package flash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk.io/app/pkg/view"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec([]byte("secret"), "", false)
	assert.Equal(t, DefaultCookieName, c.CookieName)

	in := view.Flash{Kind: view.FlashSuccess, Title: "Deleted!", Message: "Your order has been deleted."}
	v, err := c.Encode(in)
	require.NoError(t, err)

	out, err := c.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestCodec_DecodeRejects(t *testing.T) {
	c := NewCodec([]byte("secret"), "f", false)
	good, err := c.Encode(view.Flash{Kind: view.FlashInfo, Message: "hi"})
	require.NoError(t, err)

	empty, err := c.Encode(view.Flash{Kind: view.FlashInfo, Message: "  "})
	require.NoError(t, err)

	other, err := NewCodec([]byte("other"), "f", false).Encode(view.Flash{Message: "hi"})
	require.NoError(t, err)

	payload, _, _ := strings.Cut(good, ".")

	cases := map[string]string{
		"no separator":   "abc",
		"extra segment":  good + ".x",
		"bad signature":  payload + ".AAAA",
		"foreign secret": other,
		"empty message":  empty,
		"empty value":    "",
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(v)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
