package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"tasker/internal/platform/config"
	docs "tasker/internal/services/api/docs"
)

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.RWMutex
	mutators []SpecMutator
)

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a spec mutator, usually from a module constructor
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// BearerSecurity declares HS256 bearer auth and requires it on every task route
func BearerSecurity(spec map[string]any) {
	schemes := child(child(spec, "components"), "securitySchemes")
	schemes["bearer"] = map[string]any{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
	eachOp(spec, func(path string, op map[string]any) {
		if strings.HasPrefix(path, "/tasks") {
			op["security"] = []any{map[string]any{"bearer": []any{}}}
		}
	})
}

// serveDocJSON serves the OpenAPI document with the shared error envelope documented on every operation
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, "/api/v1")
		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}
		ensureErrorResponse(spec)
		addDefaultResponse(spec, "400", "Bad Request", 400, "text must not be empty")
		addDefaultResponse(spec, "500", "Internal Server Error", 500, "panic recovered")

		mu.RLock()
		for _, m := range mutators {
			m(spec)
		}
		mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers pins the document to OAS 3.0.3, the UI cannot render 3.1
func ensureServers(spec map[string]any, url string) {
	delete(spec, "swagger")
	spec["openapi"] = "3.0.3"
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorResponse documents the error envelope written by the platform responder
func ensureErrorResponse(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"kind":        map[string]any{"type": "string"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponse adds status to every operation that does not document it
func addDefaultResponse(spec map[string]any, status, desc string, code int, msg string) {
	resp := map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": code,
					"status":      desc,
					"error":       msg,
					"request_id":  "tasker/abc-000001",
				},
			},
		},
	}
	eachOp(spec, func(_ string, op map[string]any) {
		responses := child(op, "responses")
		if _, ok := responses[status]; !ok {
			responses[status] = resp
		}
	})
}

func eachOp(spec map[string]any, fn func(path string, op map[string]any)) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for path, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			if op, ok := opAny.(map[string]any); ok {
				fn(path, op)
			}
		}
	}
}

// child returns m[key] as a map, creating it when missing
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
