// Package docs registers the OpenAPI description served at /swagger. Keep it
// in step with the @Router annotations in internal/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/v1/tasks": {
            "get": {
                "tags": ["tasks"], "summary": "List tasks",
                "description": "Returns all tasks, most recently updated first",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TaskSummary"}}}}
            }
        },
        "/v1/tasks/active": {
            "get": {
                "tags": ["tasks"], "summary": "List active tasks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TaskSummary"}}}}
            }
        },
        "/v1/tasks/latest": {
            "get": {
                "tags": ["tasks"], "summary": "List latest task per location",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TaskSummary"}}}}
            }
        },
        "/v1/tasks/location": {
            "get": {
                "tags": ["tasks"], "summary": "List tasks for a location",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Directory", "name": "path", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TaskSummary"}}},
                    "400": {"description": "Missing path", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/v1/tasks/reload": {
            "post": {
                "tags": ["tasks"], "summary": "Force reload",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusCountsResponse"}}}
            }
        },
        "/v1/tasks/stream": {
            "get": {
                "tags": ["tasks"], "summary": "Stream latest tasks",
                "description": "Sends the latest task per location on connect and whenever it changes",
                "responses": {"101": {"description": "Switching Protocols", "schema": {"type": "string"}}}
            }
        },
        "/v1/tasks/{id}": {
            "get": {
                "tags": ["tasks"], "summary": "Get task",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TaskSummary"}},
                    "404": {"description": "Task not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/v1/status": {
            "get": {
                "tags": ["tasks"], "summary": "Task status counts",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusCountsResponse"}}}
            }
        }
    },
    "definitions": {
        "models.EventSummary": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "event": {"type": "string"},
                "tool": {"type": "string"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.TaskSummary": {
            "description": "Aggregated state of one Claude Code session",
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "project": {"type": "string"},
                "status": {"type": "string"},
                "status_label": {"type": "string"},
                "start_time": {"type": "string"},
                "last_update": {"type": "string"},
                "duration": {"type": "string"},
                "working_dir": {"type": "string"},
                "last_message": {"type": "string"},
                "event_count": {"type": "integer"},
                "active": {"type": "boolean"},
                "tool_usage": {"type": "object", "additionalProperties": {"type": "integer"}},
                "events": {"type": "array", "items": {"$ref": "#/definitions/models.EventSummary"}}
            }
        },
        "models.StatusCountsResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "active": {"type": "integer"},
                "counts": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "wtenv task progress API",
	Description:      "Read-only view of Claude Code task progress.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
