package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edvance API",
        "description": "Education platform backend with scholarship eligibility and application workflow",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Accounts and sessions"},
        {"name": "Profiles", "description": "Teacher and student profiles"},
        {"name": "Sponsors", "description": "Sponsor profiles and tax documents"},
        {"name": "Scholarships", "description": "Scholarship catalog and eligibility"},
        {"name": "Applications", "description": "Application submission and review"},
        {"name": "Materials", "description": "Notes and video uploads"},
        {"name": "Reports", "description": "Asynchronous CSV/PDF exports"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/profiles/teacher": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Get teacher profile",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Profiles"],
                "summary": "Save teacher profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profiles/student": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Get student profile",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Profiles"],
                "summary": "Save student profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profiles/sponsor": {
            "get": {
                "tags": ["Sponsors"],
                "summary": "Get sponsor profile",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Sponsors"],
                "summary": "Save sponsor profile with optional tax registration PDF",
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scholarships": {
            "get": {
                "tags": ["Scholarships"],
                "summary": "List active scholarships",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Scholarships"],
                "summary": "Create scholarship",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScholarshipRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/scholarships/eligible": {
            "get": {
                "tags": ["Scholarships"],
                "summary": "List scholarships matching the student's criteria",
                "parameters": [
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "family_income", "in": "query", "type": "number"},
                    {"name": "location_type", "in": "query", "type": "string"},
                    {"name": "academic_percentage", "in": "query", "type": "number"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scholarships/mine": {
            "get": {
                "tags": ["Scholarships"],
                "summary": "List own scholarships",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scholarships/{id}": {
            "delete": {
                "tags": ["Scholarships"],
                "summary": "Deactivate scholarship",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not found"}}
            }
        },
        "/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications with scholarship details",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Submit application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Scholarship inactive"}}
            }
        },
        "/applications/{id}/status": {
            "patch": {
                "tags": ["Applications"],
                "summary": "Review application",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateApplicationStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}}
            }
        },
        "/materials": {
            "get": {
                "tags": ["Materials"],
                "summary": "List materials",
                "parameters": [
                    {"name": "kind", "in": "query", "type": "string"},
                    {"name": "owner_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Materials"],
                "summary": "Upload material",
                "consumes": ["multipart/form-data"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/materials/{id}/download-link": {
            "get": {
                "tags": ["Materials"],
                "summary": "Issue signed download link",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/materials/download/{token}": {
            "get": {
                "tags": ["Materials"],
                "summary": "Download material via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "produces": ["application/octet-stream"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue report generation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/reports/status/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download finished report",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "produces": ["application/octet-stream"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["TEACHER", "STUDENT", "SPONSOR"]}
            },
            "required": ["email", "password", "full_name", "role"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateScholarshipRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string"},
                "gender_criteria": {"type": "string"},
                "family_income_max": {"type": "number"},
                "location_type": {"type": "string"},
                "min_academic_percentage": {"type": "number"},
                "deadline": {"type": "string", "format": "date-time"}
            },
            "required": ["title", "amount"]
        },
        "ApplyRequest": {
            "type": "object",
            "properties": {
                "scholarship_id": {"type": "string"},
                "student_data": {"type": "object"},
                "message": {"type": "string"}
            },
            "required": ["scholarship_id"]
        },
        "UpdateApplicationStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "accepted", "rejected"]}
            },
            "required": ["status"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["applications", "scholarships"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "format"]
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
