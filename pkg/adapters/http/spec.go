package http

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPISpec []byte

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// rawSpec returns the embedded OpenAPI document.
func rawSpec() []byte {
	return openAPISpec
}

// GetSwagger returns the parsed OpenAPI document with references resolved.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		swaggerDoc, swaggerErr = loader.LoadFromData(openAPISpec)
	})
	return swaggerDoc, swaggerErr
}

// validateAgainstSchema checks a raw JSON body against a named component schema.
func validateAgainstSchema(name string, body []byte) error {
	doc, err := GetSwagger()
	if err != nil {
		return fmt.Errorf("failed to load api spec: %w", err)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %q not found", name)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return err
	}
	return ref.Value.VisitJSON(value, openapi3.MultiErrors())
}
