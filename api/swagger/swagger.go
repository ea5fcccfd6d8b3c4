package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cursos TV Enrollment API",
        "description": "Enrollment front service for the TV Tec course platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalogue and admin mutations"},
        {"name": "Enrollments", "description": "Public enrollment submission"},
        {"name": "Records", "description": "Admin enrollment listing and exports"},
        {"name": "Authentication", "description": "Admin session"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Register course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Submit enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentForm"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed"},
                    "409": {"description": "Duplicate enrollment"},
                    "422": {"description": "Seats full"},
                    "502": {"description": "Upstream unavailable"}
                }
            }
        },
        "/enrollments/receipt": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Last submission receipt",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No submission recorded"}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "ageBracket", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/records/export": {
            "get": {
                "tags": ["Records"],
                "summary": "Export enrollments as CSV",
                "parameters": [
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "ageBracket", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/records/report": {
            "post": {
                "tags": ["Records"],
                "summary": "Send enrollment report",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Nothing to send"}
                }
            }
        },
        "/records/minors-term": {
            "post": {
                "tags": ["Records"],
                "summary": "Send minors consent term",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "No minors found"}
                }
            }
        },
        "/records/{cpf}/certificate": {
            "get": {
                "tags": ["Records"],
                "summary": "Completion certificate PDF",
                "parameters": [
                    {"name": "cpf", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF content"},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/session": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        }
    },
    "definitions": {
        "EnrollmentForm": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "national_id": {"type": "string"},
                "email": {"type": "string"},
                "course_name": {"type": "string"},
                "gender": {"type": "string"},
                "birth_date": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["full_name", "national_id", "email", "course_name", "gender", "birth_date", "phone"]
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "instructor": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "hours_total": {"type": "integer"},
                "certificate_label": {"type": "string"},
                "seats_total": {"type": "integer"}
            },
            "required": ["name", "instructor", "start_date", "end_date", "hours_total", "certificate_label", "seats_total"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "SubmissionReceipt": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
