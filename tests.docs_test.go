package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swaggo/swag"
)

// TestSwaggerDocRegistration ensures the generated swagger spec is
// registered at init time and renders to valid json carrying the
// catalog endpoints.
func TestSwaggerDocRegistration(t *testing.T) {
	doc, err := swag.ReadDoc()
	assert.NoError(t, err)

	m := make(map[string]interface{})
	err = json.Unmarshal([]byte(doc), &m)
	assert.NoError(t, err)
	assert.Equal(t, "2.0", m["swagger"])

	paths, ok := m["paths"].(map[string]interface{})
	assert.True(t, ok)
	for _, path := range []string{
		"/api/books",
		"/api/books/featured",
		"/api/books/top-rated",
		"/api/books/dates/{start}/{end}",
		"/api/books/{id}",
		"/api/reviews",
		"/api/reviews/book/{bookId}",
		"/status",
	} {
		_, ok = paths[path]
		assert.True(t, ok, path)
	}
}
