package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceBody struct {
	SKU   string          `json:"sku" binding:"required,max=8"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Qty   int             `json:"qty" binding:"min=0"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var b priceBody
	return c.ShouldBindJSON(&b)
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	t.Run("valid body", func(t *testing.T) {
		assert.NoError(t, bindBody(t, `{"sku":"BAT-01","price":"12.50","qty":1}`))
	})

	t.Run("json field names and decimal required", func(t *testing.T) {
		err := bindBody(t, `{"sku":"TOO-LONG-SKU","qty":-1}`)
		require.Error(t, err)

		details := ValidationDetails(err)
		fields := map[string]string{}
		for _, d := range details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at most 8 characters", fields["sku"])
		assert.Equal(t, "This field is required", fields["price"])
		assert.Equal(t, "Must be at least 0", fields["qty"])
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		err := bindBody(t, `{"sku":`)
		require.Error(t, err)
		assert.Nil(t, ValidationDetails(err))
	})
}
