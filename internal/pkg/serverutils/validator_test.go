package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Score int    `validate:"required,min=1,max=5"`
}

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(&sampleRequest{Email: "a@b.com", Score: 3})
	assert.NoError(t, err)
}

func TestValidateRequestFlattensFailures(t *testing.T) {
	err := ValidateRequest(&sampleRequest{Email: "not-an-email", Score: 9})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email failed on 'email'")
	assert.Contains(t, err.Error(), "Score failed on 'max'")
}
