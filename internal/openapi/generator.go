package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the OpenAPI 3.0 document for the public and admin API and
// returns it serialized as JSON.
func Generate() ([]byte, error) {
	doc := Document()
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	return data, nil
}

// Document builds the OpenAPI 3.0 document describing every endpoint.
func Document() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Big Deal API",
			Description: "Game result publishing, contact inquiries, and admin session management.",
			Version:     "1.0.0",
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["cookieAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type: "apiKey",
			In:   "cookie",
			Name: "admin_token",
		},
	}

	doc.Components.Schemas["ErrorResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
						},
					},
				},
			},
		},
	}

	doc.Components.Schemas["GameResult"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"id":           stringSchema(),
				"date":         stringSchema(),
				"time":         stringSchema(),
				"number":       stringSchema(),
				"bottomNumber": stringSchema(),
				"createdAt":    timeSchema(),
				"updatedAt":    timeSchema(),
			},
		},
	}

	doc.Components.Schemas["ContactSubmission"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"id":        stringSchema(),
				"name":      stringSchema(),
				"phone":     stringSchema(),
				"email":     stringSchema(),
				"message":   stringSchema(),
				"createdAt": timeSchema(),
			},
		},
	}

	doc.Paths = openapi3.NewPaths()

	addPath(doc, "/healthz", "get", "Liveness probe", false)
	addPath(doc, "/readyz", "get", "Readiness probe", false)
	addPath(doc, "/results/today", "get", "List today's results", false)
	addPath(doc, "/results/date/{date}", "get", "List results for a date (dd/mm/yyyy, URL-escaped)", false)
	addPath(doc, "/results/all", "get", "List recent results grouped by date", false)
	addPath(doc, "/contact", "post", "Submit a contact inquiry", false)
	addPath(doc, "/admin/login", "post", "Authenticate and receive a session cookie", false)
	addPath(doc, "/admin/logout", "post", "Clear the session cookie", false)
	addPath(doc, "/admin/init", "post", "Create the default admin if none exists", false)
	addPath(doc, "/admin/forgot-password", "post", "Generate a password reset token", false)
	addPath(doc, "/admin/reset-password", "post", "Redeem a reset token and set a new password", false)
	addPath(doc, "/admin/me", "get", "Current session identity", true)
	addPath(doc, "/admin/change-password", "post", "Change the current admin's password", true)
	addPath(doc, "/admin/results", "post", "Publish a result", true)
	addPath(doc, "/admin/results/{resultID}", "put", "Update a result", true)
	addPath(doc, "/admin/results/{resultID}", "delete", "Delete a result", true)
	addPath(doc, "/admin/contacts", "get", "List contact submissions", true)

	return doc
}

func stringSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}

func timeSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
}

func addPath(doc *openapi3.T, path, method, summary string, authenticated bool) {
	op := openapi3.NewOperation()
	op.Summary = summary
	op.Responses = openapi3.NewResponses()
	if authenticated {
		op.Security = &openapi3.SecurityRequirements{{"cookieAuth": {}}}
	}

	item := doc.Paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		doc.Paths.Set(path, item)
	}
	item.SetOperation(strings.ToUpper(method), op)
}
