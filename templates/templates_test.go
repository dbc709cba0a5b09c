package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk.io/app/pkg/view"
)

func TestLoad_RendersPages(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "dashboard.html", view.DashboardPage{
		Flash:        &view.Flash{Kind: view.FlashSuccess, Title: "Success", Message: "Your order has been delivered."},
		Filters:      []view.FilterTab{{Value: "All", Label: "All", Count: 1, Active: true}},
		DeletePrompt: "Are you sure?",
		Orders: []view.OrderRow{{
			ID:       "o1",
			Customer: "Ada Lovelace",
			Status:   "success",
			Expanded: true,
			Items:    []view.OrderItemRow{{Title: "Teapot", ImageURL: "https://cdn/x.png"}},
		}},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Your order has been delivered.")
	assert.Contains(t, out, "/admin/orders/o1/status")
	assert.Contains(t, out, "Teapot")
	assert.Contains(t, out, "All (1)")

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "login.html", view.LoginPage{
		Message: "Invalid email or password.",
		Errors:  map[string]string{"email": "Enter a valid email address."},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Invalid email or password.")
	assert.Contains(t, buf.String(), "Enter a valid email address.")

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "error.html", view.ErrorPage{Status: 404, Title: "Not Found", Message: "Order not found."}))
	assert.Contains(t, buf.String(), "Order not found.")
}
