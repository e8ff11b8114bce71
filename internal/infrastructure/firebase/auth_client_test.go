package firebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneFromClaims(t *testing.T) {
	assert.Equal(t, "+919000000001", PhoneFromClaims(map[string]interface{}{"phone_number": "+919000000001"}))
	assert.Empty(t, PhoneFromClaims(map[string]interface{}{"phone_number": 42}))
	assert.Empty(t, PhoneFromClaims(nil))
}
