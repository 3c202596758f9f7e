package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "IOMP API",
        "description": "Institutional backend: auth, academic entities, messaging and an AI assistant",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login, signup and session"},
        {"name": "Account", "description": "Notifications and settings"},
        {"name": "Events", "description": "Events and registrations"},
        {"name": "Announcements", "description": "Platform notices"},
        {"name": "Classrooms", "description": "Classrooms, materials, assignments"},
        {"name": "Attendance", "description": "Attendance records and reports"},
        {"name": "Messages", "description": "Direct and broadcast messaging"},
        {"name": "Chatbot", "description": "AI assistant"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token and user"},
                    "400": {"description": "Field errors"},
                    "401": {"description": "Invalid email or password"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Token and user"},
                    "400": {"description": "Field errors or duplicate email"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current authenticated user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "User"},
                    "401": {"description": "Not authorized"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/auth/notifications": {
            "get": {
                "tags": ["Account"],
                "summary": "Notification feed with unread count",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Notifications"}}
            }
        },
        "/auth/settings": {
            "get": {
                "tags": ["Account"],
                "summary": "Settings snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Settings"}}
            },
            "put": {
                "tags": ["Account"],
                "summary": "Update settings",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Stored settings"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["Authentication"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Users"}}
            }
        },
        "/organizations": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create an organization",
                "responses": {
                    "201": {"description": "Organization"},
                    "400": {"description": "Duplicate domain"}
                }
            }
        },
        "/posts": {
            "get": {
                "tags": ["Account"],
                "summary": "Feed of posts, newest first",
                "responses": {"200": {"description": "Posts"}}
            },
            "post": {
                "tags": ["Account"],
                "summary": "Create a post",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Post"}}
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events ascending by date",
                "responses": {"200": {"description": "Events"}}
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create an event (teacher/admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Event"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Event detail with registration count",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Event"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/events/{id}/register": {
            "post": {
                "tags": ["Events"],
                "summary": "Register for an event",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "201": {"description": "Registration"},
                    "400": {"description": "Already registered"}
                }
            }
        },
        "/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List announcements, newest first",
                "responses": {"200": {"description": "Announcements"}}
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Create an announcement (teacher/admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Announcement"}}
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "List classrooms",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Classrooms"}}
            },
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create a classroom (teacher)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Classroom"},
                    "400": {"description": "Duplicate code"}
                }
            }
        },
        "/classrooms/{id}": {
            "delete": {
                "tags": ["Classrooms"],
                "summary": "Delete a classroom and its sub-resources",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Deleted"},
                    "403": {"description": "Not the owner"}
                }
            }
        },
        "/classrooms/{id}/details": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Classroom with materials and assignments",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Detail"}}
            }
        },
        "/classrooms/{id}/materials": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Upload a material file",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"201": {"description": "Material"}}
            }
        },
        "/classrooms/{id}/assignments": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create an assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Assignment"}}
            }
        },
        "/classrooms/{id}/enroll": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Enroll the caller in a classroom",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Enrollment"}}
            }
        },
        "/attendance/mark": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance (teacher/admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Attendance record"}}
            }
        },
        "/attendance/report": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Per-student classroom summary",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "classroom_id", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Report rows"}}
            }
        },
        "/attendance/report/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Download the report as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classroom_id", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/messages": {
            "get": {
                "tags": ["Messages"],
                "summary": "Messages visible to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Messages"}}
            },
            "post": {
                "tags": ["Messages"],
                "summary": "Send a direct or broadcast message",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Message"}}
            }
        },
        "/chat": {
            "post": {
                "tags": ["Chatbot"],
                "summary": "One chatbot turn",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Reply"},
                    "500": {"description": "Assistant failure"}
                }
            }
        },
        "/chat/history": {
            "get": {
                "tags": ["Chatbot"],
                "summary": "Last 20 turns, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Turns"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SignupRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "teacher", "admin"]}
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
