package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swaggo/swag"
)

func TestSwaggerInfoIsRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())

	assert.NoError(t, err)
	assert.Contains(t, doc, "Linkboard API")
	assert.Contains(t, doc, `"swagger": "2.0"`)
	assert.Contains(t, doc, "localhost:8080")
}
