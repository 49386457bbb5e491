package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academy Schedule API",
        "description": "Weekly time slots, conflict detection and session calendars for music academies",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Access tokens"},
        {"name": "Periods", "description": "Academic periods"},
        {"name": "Schedules", "description": "Course schedules and professor timetables"},
        {"name": "Session Dates", "description": "Concrete course calendar"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"Bearer": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods": {
            "get": {
                "tags": ["Periods"],
                "summary": "List academic periods",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "isActive", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Periods"],
                "summary": "Create academic period",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}": {
            "get": {
                "tags": ["Periods"],
                "summary": "Get academic period",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}/courses/{professorId}/{subjectId}/schedule": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Replace the weekly schedule of a course",
                "description": "Diffs the requested slots against the stored ones, rejects overlaps with the professor's other courses and regenerates clase session dates in one transaction. With allow_partial, conflicting slots are skipped and reported.",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReconcileScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Reconciled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid slot or date range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}/courses/{professorId}/{subjectId}": {
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete the schedule of a course",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}/professors/{professorId}/timetable": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Professor timetable",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}/professors/{professorId}/time-slots/check": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Check one slot against the professor timetable",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/session-dates/preview": {
            "post": {
                "tags": ["Session Dates"],
                "summary": "Preview session dates",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewSessionDatesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}/subjects/{subjectId}/session-dates": {
            "get": {
                "tags": ["Session Dates"],
                "summary": "List session dates of a course",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "type": "string", "description": "Comma separated: clase, inicio, cierre, feriado, recital, otro"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academies/{academyId}/periods/{periodId}/subjects/{subjectId}/session-dates/export": {
            "get": {
                "tags": ["Session Dates"],
                "summary": "Export the session calendar of a course",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/calendar"],
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "academyId", "in": "path", "required": true, "type": "string"},
                    {"name": "periodId", "in": "path", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx", "ics"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "period": {"type": "string"},
                "start_date": {"type": "string", "example": "2025-03-01"},
                "end_date": {"type": "string", "example": "2025-07-15"},
                "is_active": {"type": "boolean"}
            },
            "required": ["year", "period"]
        },
        "TimeSlotInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "day_of_week": {"type": "integer", "minimum": 1, "maximum": 7},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"}
            },
            "required": ["day_of_week", "start_time", "end_time"]
        },
        "ReconcileScheduleRequest": {
            "type": "object",
            "properties": {
                "time_slots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlotInput"}},
                "session_dates": {"type": "array", "items": {"type": "string"}},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "allow_partial": {"type": "boolean"}
            }
        },
        "CheckSlotRequest": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "exclude_slot_id": {"type": "string"}
            },
            "required": ["day_of_week", "start_time", "end_time"]
        },
        "PreviewSessionDatesRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "weekdays": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["start_date", "end_date", "weekdays"]
        },
        "ScheduleConflict": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "integer"},
                "day_name": {"type": "string"},
                "requested_start": {"type": "string"},
                "requested_end": {"type": "string"},
                "existing_slot_id": {"type": "string"},
                "existing_start": {"type": "string"},
                "existing_end": {"type": "string"},
                "subject_id": {"type": "string"},
                "course_name": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
