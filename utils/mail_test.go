package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravoke/bravo-suppliers-api/models"
)

func TestOrderEmailTemplate(t *testing.T) {
	data := orderEmailData{
		Order: models.Order{
			OrderNumber: "BRAVO-20250101120000",
			FirstName:   "Jane",
			LastName:    "Wanjiku",
			Phone:       "0712345678",
			Address:     "Moi Avenue, Nairobi",
			TotalAmount: 480,
		},
		Items: []orderEmailLine{
			{Name: "Kettle", Quantity: 2, Price: 90, LineTotal: 180},
		},
		Subtotal:    180,
		DeliveryFee: 300,
	}

	var body bytes.Buffer
	require.NoError(t, orderEmailTmpl.Execute(&body, data))
	html := body.String()

	assert.Contains(t, html, "BRAVO-20250101120000")
	assert.Contains(t, html, "Jane Wanjiku")
	assert.Contains(t, html, "Kettle")
	assert.Contains(t, html, "KSh 90.00")
	assert.Contains(t, html, "KSh 180.00")
	assert.Contains(t, html, "KSh 300.00")
	assert.Contains(t, html, "KSh 480.00")
	// No email or notes were given.
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "None")
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(2)
	require.NoError(t, err)
	assert.Len(t, code, 4)
	assert.Regexp(t, "^[0-9a-f]+$", code)

	other, err := GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, other, 16)
	assert.NotEqual(t, code, other)
}
