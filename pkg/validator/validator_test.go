package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	Name  string  `json:"name" validate:"notblank,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
	Venue string  `json:"venue" validate:"oneof=mosaico hikayat"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(itemRequest{Name: "Latte", Price: 4.5, Venue: "mosaico"}))

	err := Validate(itemRequest{Name: "   ", Price: -1, Venue: "other"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := ve.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be greater than or equal to 0", fields["Price"])
	assert.Equal(t, "must be one of: mosaico hikayat", fields["Venue"])
	assert.Contains(t, ve.Error(), "field 'Name' is required")
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Tea","price":2,"venue":"hikayat"}`))
	var dst itemRequest
	require.NoError(t, DecodeAndValidate(r, &dst))
	assert.Equal(t, "Tea", dst.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	err := DecodeAndValidate(r, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
