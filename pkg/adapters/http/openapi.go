package http

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawDoc []byte

var (
	docOnce sync.Once
	doc     *openapi3.T
	docErr  error
)

// GetSwagger parses the embedded API description.
func GetSwagger() (*openapi3.T, error) {
	docOnce.Do(func() {
		doc, docErr = openapi3.NewLoader().LoadFromData(rawDoc)
	})
	return doc, docErr
}
