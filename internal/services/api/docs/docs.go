// Package docs holds the OpenAPI document for the task API
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{.Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/tasks/parse": {
      "post": {
        "tags": ["Tasks"],
        "summary": "Extract date, time and title from an utterance without saving",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ParseInput"}}}},
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Parsed"}}}}}
      }
    },
    "/tasks": {
      "post": {
        "tags": ["Tasks"],
        "summary": "Create a task from an utterance",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateInput"}}}},
        "responses": {"201": {"description": "created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Task"}}}}}
      },
      "get": {
        "tags": ["Tasks"],
        "summary": "List the caller's tasks, optionally for one date",
        "parameters": [{"name": "date", "in": "query", "schema": {"type": "string", "example": "2024-01-11"}}],
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/tasks/{id}": {
      "get": {
        "tags": ["Tasks"],
        "summary": "Fetch one task",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Task"}}}}, "404": {"description": "not found"}}
      },
      "delete": {
        "tags": ["Tasks"],
        "summary": "Delete a task",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
        "responses": {"204": {"description": "deleted"}, "404": {"description": "not found"}}
      }
    },
    "/tasks/{id}/done": {
      "patch": {
        "tags": ["Tasks"],
        "summary": "Mark a task done or pending",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DoneInput"}}}},
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Task"}}}}}
      }
    },
    "/tasks/{id}/calendar": {
      "get": {
        "tags": ["Tasks"],
        "summary": "Google Calendar link for a task",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/analytics/summary": {
      "get": {
        "tags": ["Analytics"],
        "summary": "Extraction hit rates since a date",
        "parameters": [{"name": "since", "in": "query", "schema": {"type": "string", "example": "2024-01-01"}}],
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}},
    "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with dependency checks", "responses": {"200": {"description": "ok"}}}},
    "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and lexicon version", "responses": {"200": {"description": "ok"}}}},
    "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service name and uptime", "responses": {"200": {"description": "ok"}}}}
  },
  "components": {
    "schemas": {
      "ParseInput": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text": {"type": "string", "example": "Levar meu pet amanhã de tarde"},
          "now": {"type": "string", "format": "date-time", "example": "2024-01-10T10:00:00-03:00"}
        }
      },
      "CreateInput": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text": {"type": "string", "example": "Reunião com Ana quinta às 14h"},
          "description": {"type": "string"},
          "lat": {"type": "number"},
          "lng": {"type": "number"}
        }
      },
      "DoneInput": {"type": "object", "properties": {"done": {"type": "boolean"}}},
      "Parsed": {
        "type": "object",
        "properties": {
          "title": {"type": "string", "example": "Levar meu pet"},
          "date": {"type": "string", "example": "2024-01-11"},
          "time": {"type": "string", "example": "15:00"}
        }
      },
      "Task": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "user_id": {"type": "string"},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "date": {"type": "string"},
          "time": {"type": "string"},
          "done": {"type": "boolean"},
          "created_at": {"type": "string", "format": "date-time"},
          "updated_at": {"type": "string", "format": "date-time"}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "tasker API",
	Description:      "Turns pt-BR task utterances into dated tasks",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
