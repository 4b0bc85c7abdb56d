package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Schoolable Timetable API",
        "description": "Period scheduling, conflict detection, and workload analysis",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Periods", "description": "Period lifecycle and master schedule seeding"},
        {"name": "Timetables", "description": "Assembled schedule views"},
        {"name": "Generator", "description": "Weekly subject distribution"},
        {"name": "Workload", "description": "Teacher load analysis"},
        {"name": "Registrations", "description": "Course registrations and enrollments"},
        {"name": "Exports", "description": "Downloadable timetable documents"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/periods": {
            "get": {
                "tags": ["Periods"],
                "summary": "List periods",
                "parameters": [
                    {"name": "termId", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "classArmId", "in": "query", "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "subjectId", "in": "query", "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "kind", "in": "query", "type": "string"},
                    {"name": "schoolType", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Periods"],
                "summary": "Create period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Teacher or room double-booking", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Periods"],
                "summary": "Delete all periods for a class or class arm in a term",
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "classArmId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/periods/{id}": {
            "put": {
                "tags": ["Periods"],
                "summary": "Update period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePeriodRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Teacher or room double-booking", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Periods"],
                "summary": "Delete period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/periods/master-schedule": {
            "post": {
                "tags": ["Periods"],
                "summary": "Seed the master schedule grid for every class arm",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeedMasterScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/schedule": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a student's effective weekly schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/timetable": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the weekly timetable of a class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/class-arms/{id}/timetable": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the weekly timetable of a class arm",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/class-arms/{id}/timetable/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a class arm's weekly timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "schoolId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "title", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Document bytes"}
                }
            }
        },
        "/teachers/{id}/timetable": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the weekly timetable of a teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Generator"],
                "summary": "Generate a weekly timetable proposal for a section",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/apply": {
            "post": {
                "tags": ["Generator"],
                "summary": "Commit a generated proposal slot by slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{id}/workload": {
            "get": {
                "tags": ["Workload"],
                "summary": "Summarize teacher workload for a school and term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}/least-loaded-teacher": {
            "get": {
                "tags": ["Workload"],
                "summary": "Recommend the least loaded competent teacher for a subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "exclude", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Register a student for a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate active registration", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/{id}": {
            "delete": {
                "tags": ["Registrations"],
                "summary": "Deactivate a course registration",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/students/{id}/registrations": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List a student's active course registrations",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Enroll a student into a class arm",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Arm at capacity or duplicate enrollment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SlotTemplate": {
            "type": "object",
            "properties": {
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "09:00"},
                "kind": {"type": "string", "enum": ["LESSON", "BREAK", "ASSEMBLY", "LUNCH"]},
                "label": {"type": "string"}
            },
            "required": ["start_time", "end_time", "kind"]
        },
        "CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "schoolId": {"type": "string"},
                "termId": {"type": "string"},
                "dayOfWeek": {"type": "string", "example": "MONDAY"},
                "startTime": {"type": "string", "example": "08:00"},
                "endTime": {"type": "string", "example": "09:00"},
                "kind": {"type": "string", "enum": ["LESSON", "BREAK", "ASSEMBLY", "LUNCH"]},
                "label": {"type": "string"},
                "subjectId": {"type": "string"},
                "courseId": {"type": "string"},
                "teacherId": {"type": "string"},
                "roomId": {"type": "string"},
                "classId": {"type": "string"},
                "classArmId": {"type": "string"}
            },
            "required": ["schoolId", "termId", "dayOfWeek", "startTime", "endTime", "kind"]
        },
        "UpdatePeriodRequest": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "label": {"type": "string"},
                "subjectId": {"type": "string"},
                "courseId": {"type": "string"},
                "teacherId": {"type": "string"},
                "roomId": {"type": "string"}
            }
        },
        "SeedMasterScheduleRequest": {
            "type": "object",
            "properties": {
                "schoolId": {"type": "string"},
                "termId": {"type": "string"},
                "template": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotTemplate"}
                }
            },
            "required": ["schoolId", "termId", "template"]
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "schoolId": {"type": "string"},
                "termId": {"type": "string"},
                "classId": {"type": "string"},
                "classArmId": {"type": "string"},
                "template": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotTemplate"}
                },
                "maxSameSubjectPerDay": {"type": "integer"},
                "freePeriodsPerDay": {"type": "integer"}
            },
            "required": ["schoolId", "termId"]
        },
        "ApplyTimetableRequest": {
            "type": "object",
            "properties": {
                "schoolId": {"type": "string"},
                "termId": {"type": "string"},
                "classId": {"type": "string"},
                "classArmId": {"type": "string"},
                "slots": {"type": "array", "items": {"type": "object"}}
            },
            "required": ["schoolId", "termId", "slots"]
        },
        "RegisterCourseRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "subjectId": {"type": "string"},
                "termId": {"type": "string"},
                "carryOver": {"type": "boolean"}
            },
            "required": ["studentId", "subjectId", "termId"]
        },
        "EnrollStudentRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "schoolId": {"type": "string"},
                "termId": {"type": "string"},
                "classArmId": {"type": "string"}
            },
            "required": ["studentId", "schoolId", "termId", "classArmId"]
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
