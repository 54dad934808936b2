package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "tags": [
        {"name": "Auth", "description": "Administrator session"},
        {"name": "Students", "description": "Student records and their enrollments"},
        {"name": "Courses", "description": "Courses, sessions and private lessons"},
        {"name": "Billing", "description": "Invoices and payments"},
        {"name": "Attendance", "description": "Monthly attendance sheets"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Open an administrator session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session cookie set"},
                    "401": {"description": "Invalid password"},
                    "429": {"description": "Too many attempts"}
                }
            }
        },
        "/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Clear the session cookie", "responses": {"204": {"description": "Logged out"}}}
        },
        "/auth/status": {
            "get": {"tags": ["Auth"], "summary": "Report whether the caller is authenticated", "responses": {"200": {"description": "OK"}, "401": {"description": "Not authenticated"}}}
        },
        "/dashboard": {
            "get": {"tags": ["Students"], "summary": "Headline counts and upcoming birthdays", "responses": {"200": {"description": "OK"}}}
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["all", "active", "inactive"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/students/{id}/enrollments/{enrollmentId}": {
            "put": {
                "tags": ["Students"],
                "summary": "Replace an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "enrollmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/students/{id}/guarantor": {
            "get": {"tags": ["Students"], "summary": "Get a student's guarantor", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "No guarantor"}}},
            "post": {
                "tags": ["Students"],
                "summary": "Attach a guarantor, reusing one with the same names, phone and email",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GuarantorRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}
            },
            "delete": {"tags": ["Students"], "summary": "Detach a student's guarantor", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Detached"}}}
        },
        "/students/{id}/placement-tests": {
            "get": {"tags": ["Students"], "summary": "List placement tests, latest first", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Students"],
                "summary": "Record a placement test",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlacementTestRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/students/{id}/documents": {
            "get": {"tags": ["Students"], "summary": "List documents with signed download links", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["Students"],
                "summary": "Upload a PDF, JPEG or PNG document (10 MB max)",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "name", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/documents/{id}/download": {
            "get": {
                "tags": ["Students"],
                "summary": "Download a document through a signed link",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired link"}}
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Courses"],
                "summary": "List sessions",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["OPEN", "CLOSED"]},
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/invoices": {
            "get": {
                "tags": ["Billing"],
                "summary": "List invoices",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["PAID", "PARTIAL", "UNPAID"]},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Billing"],
                "summary": "Create invoice",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInvoiceRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/invoices/{id}/pdf": {
            "get": {
                "tags": ["Billing"],
                "summary": "Render the invoice as PDF",
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PDF document"}}
            }
        },
        "/invoices/{id}/payments": {
            "post": {
                "tags": ["Billing"],
                "summary": "Record a payment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Amount not positive or above the remaining balance"}
                }
            }
        },
        "/sessions/{id}/attendance-sheets": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Create a month sheet for a session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceSheetRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Sheet already exists"}}
            }
        },
        "/attendance-sheets/{id}/records": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Bulk update attendance statuses",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/StatusUpdate"}}}
                ],
                "responses": {"204": {"description": "Saved"}}
            }
        },
        "/attendance-sheets/{id}/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export the sheet as CSV",
                "produces": ["text/csv"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "CSV document"}}
            }
        }
    },
    "definitions": {
        "GuarantorRequest": {
            "type": "object",
            "required": ["last_name", "first_name", "phone", "email"],
            "properties": {
                "last_name": {"type": "string"},
                "first_name": {"type": "string"},
                "street": {"type": "string"},
                "street_number": {"type": "string"},
                "postcode": {"type": "string"},
                "locality": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "PlacementTestRequest": {
            "type": "object",
            "required": ["test_date", "level", "score"],
            "properties": {
                "test_date": {"type": "string", "format": "date"},
                "level": {"type": "string", "enum": ["A1", "A2", "B1", "B2", "C1"]},
                "score": {"type": "number", "minimum": 0, "maximum": 20}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {"password": {"type": "string"}}
        },
        "StudentRequest": {
            "type": "object",
            "required": ["last_name", "first_name", "birth_date", "birth_place", "sex", "phone", "email", "country"],
            "properties": {
                "last_name": {"type": "string"},
                "first_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date"},
                "birth_place": {"type": "string"},
                "sex": {"type": "string", "enum": ["F", "M"]},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "postcode": {"type": "string"},
                "country": {"type": "string"},
                "level": {"type": "string", "enum": ["A1", "A2", "B1", "B2", "C1"]}
            }
        },
        "EnrollmentRequest": {
            "type": "object",
            "required": ["session_id"],
            "properties": {
                "session_id": {"type": "string"},
                "registered_on": {"type": "string", "format": "date"},
                "fee": {"type": "number"},
                "pre_registration": {"type": "boolean"},
                "exit_date": {"type": "string", "format": "date"},
                "exit_reason": {"type": "string"},
                "status": {"type": "string", "enum": ["ACTIVE", "INACTIVE"]}
            }
        },
        "LineItem": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "period_start": {"type": "string", "format": "date"},
                "period_end": {"type": "string", "format": "date"},
                "amount": {"type": "number"}
            }
        },
        "CreateInvoiceRequest": {
            "type": "object",
            "required": ["line_items"],
            "properties": {
                "enrollment_id": {"type": "string"},
                "private_lesson_id": {"type": "string"},
                "issued_on": {"type": "string", "format": "date"},
                "due_date": {"type": "string", "format": "date"},
                "line_items": {"type": "array", "items": {"$ref": "#/definitions/LineItem"}}
            }
        },
        "PaymentRequest": {
            "type": "object",
            "required": ["amount", "channel"],
            "properties": {
                "amount": {"type": "number"},
                "paid_on": {"type": "string", "format": "date"},
                "channel": {"type": "string", "enum": ["PERSONAL", "BPA", "CAF", "HOSPICE", "OTHER"]},
                "method": {"type": "string", "enum": ["CASH", "TRANSFER", "CARD", "PHONE"]}
            }
        },
        "AttendanceSheetRequest": {
            "type": "object",
            "required": ["month", "year"],
            "properties": {
                "month": {"type": "integer", "minimum": 1, "maximum": 12},
                "year": {"type": "integer"}
            }
        },
        "StatusUpdate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["PRESENT", "ABSENT"]}
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

// SwaggerInfo holds the exported Swagger info so main can adjust it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "École PEG API",
	Description:      "Administration backend for École PEG: students, courses, billing and attendance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
