package echoapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/invoice"
	"github.com/uniwayhq/uniway/core/user"
)

func TestInvoiceAPI_createAndPay(t *testing.T) {
	env := setupServer(t)
	accountant := env.createUser(t, "Ann Accountant", "annaccount", "ann@test.cd", "LionelMessi10", user.AccountantRoles, true)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, accountant)

	rec := env.do(t, http.MethodPost, "/v1/invoices", token, invoice.NewInvoice{
		StudentID:   "s1",
		Amount:      5000,
		Description: "Application Fee",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var inv invoice.Invoice
	decodeBody(t, rec, &inv)
	assert.Equal(t, invoice.StatusPending, inv.Status)
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"))

	// marking paid is accountant/admin only
	rec = env.do(t, http.MethodPut, "/v1/invoices/"+inv.ID+"/pay", env.getToken(t, counsellor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/v1/invoices/"+inv.ID+"/pay", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &inv)
	assert.Equal(t, invoice.StatusPaid, inv.Status)
}

func TestInvoiceAPI_queryFilters(t *testing.T) {
	env := setupServer(t)
	accountant := env.createUser(t, "Ann Accountant", "annaccount", "ann@test.cd", "LionelMessi10", user.AccountantRoles, true)
	token := env.getToken(t, accountant)

	for _, ni := range []invoice.NewInvoice{
		{StudentID: "s1", Amount: 5000, Description: "Application Fee"},
		{StudentID: "s2", Amount: 20000, Description: "Visa Success Fee - Australia"},
	} {
		rec := env.do(t, http.MethodPost, "/v1/invoices", token, ni)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/v1/invoices?student_id=s2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var invoices []invoice.Invoice
	decodeBody(t, rec, &invoices)
	require.Len(t, invoices, 1)
	assert.Equal(t, "s2", invoices[0].StudentID)
}
