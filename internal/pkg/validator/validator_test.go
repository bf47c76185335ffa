package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Phone    string  `validate:"required"`
	Duration float64 `validate:"oneof=0.5 3 6 12"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{Phone: "9876543210", Duration: 6}))

	errs := Validate(sample{Duration: 4})
	assert.Equal(t, "required", errs["Phone"])
	assert.Equal(t, "oneof", errs["Duration"])
}
