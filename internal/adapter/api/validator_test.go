package api

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mateswap/internal/usecase"
)

func TestValidatorCreateProductInput(t *testing.T) {
	v := NewValidator()

	valid := usecase.CreateProductInput{
		DisplayName: "Retro Gaming",
		Platform:    "YouTube",
		Price:       120,
		Category:    "Gaming",
		AccountLink: "https://youtube.com/@retro",
	}
	assert.NoError(t, v.Validate(&valid))

	invalid := valid
	invalid.Price = 0
	invalid.AccountLink = "not a link"
	err := v.Validate(&invalid)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := []string{}
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"Price", "AccountLink"}, fields)
}
