package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Timetable generation and lifecycle service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Timetable", "description": "Generation, lifecycle and manual edits"},
        {"name": "Exports", "description": "CSV, PDF, XLSX and iCalendar downloads"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated request, cache and generation statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List generations, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a draft timetable",
                "description": "Runs the placement engine over the given assignments. Unplaced sessions are returned as conflicts.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Scheduler disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get a generation with its slots and conflicts",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Timetable"],
                "summary": "Rename a generation or change its status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGenerationRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a generation with its slots and conflicts",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetable/{id}/activate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Make a generation the active timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/timetable/{id}/slot": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Manually edit a timetable slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSlotRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/timetable/{id}/validation": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Re-check a generation for double bookings and rule violations",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/timetable/{id}/conflicts/{conflictId}/resolve": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Mark a conflict as resolved",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "conflictId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/timetable/{id}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generation",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/timetable/{id}/teachers/{teacherId}/calendar.ics": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the weekly lessons of a teacher as iCalendar",
                "produces": ["text/calendar"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        }
    },
    "definitions": {
        "GenerationConfig": {
            "type": "object",
            "required": ["days", "periodsPerDay", "maxConsecutive"],
            "properties": {
                "days": {"type": "array", "items": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"]}},
                "periodsPerDay": {"type": "integer", "minimum": 1, "maximum": 12},
                "maxConsecutive": {"type": "integer", "minimum": 1, "maximum": 5},
                "breakPeriods": {"type": "array", "items": {"type": "integer"}},
                "lunchPeriod": {"type": "integer"}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["name", "config", "assignmentIds"],
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "config": {"$ref": "#/definitions/GenerationConfig"},
                "assignmentIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateGenerationRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "active", "archived"]}
            }
        },
        "UpdateSlotRequest": {
            "type": "object",
            "required": ["slotId"],
            "properties": {
                "slotId": {"type": "string"},
                "day": {"type": "string"},
                "period": {"type": "integer"},
                "teacherId": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "locked", "substituted", "cancelled", "break"]},
                "isLocked": {"type": "boolean"},
                "lockReason": {"type": "string"},
                "substituteReason": {"type": "string"},
                "changedBy": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
