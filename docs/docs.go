// Package docs registers the OpenAPI document served under /swagger.
// Regenerate it from the controller annotations with:
//
//	swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@mentorhub.local"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "Successfully authenticated"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get current user", "responses": {"200": {"description": "Current user"}}}},
        "/auth/change-password": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Change password", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"type": "object", "required": ["currentPassword", "newPassword"], "properties": {"currentPassword": {"type": "string"}, "newPassword": {"type": "string", "minLength": 8, "maxLength": 72}}}}], "responses": {"200": {"description": "Password changed"}, "400": {"description": "Invalid request or wrong current password"}}}},
        "/requests": {"post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Submit a request", "responses": {"201": {"description": "Request submitted"}}}},
        "/requests/mine": {"get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "List my requests", "responses": {"200": {"description": "Requests"}}}},
        "/requests/assigned": {"get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "List assigned requests", "responses": {"200": {"description": "Requests"}}}},
        "/requests/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Get request by ID", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Request"}}}},
        "/requests/{id}/approve": {"post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Approve a request", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Request approved"}, "409": {"description": "Request has already been actioned"}}}},
        "/requests/{id}/reject": {"post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Reject a request", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Request rejected"}, "400": {"description": "Feedback is required"}}}},
        "/requests/{id}/cancel": {"post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Cancel a request", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Request cancelled"}}}},
        "/mentor/assign": {"post": {"security": [{"BearerAuth": []}], "tags": ["mentorship"], "summary": "Assign mentor", "responses": {"200": {"description": "Mentor assigned"}}}},
        "/mentor/reset": {"post": {"security": [{"BearerAuth": []}], "tags": ["mentorship"], "summary": "Reset department mentorships", "responses": {"200": {"description": "Mentorships reset"}}}},
        "/mentor/unassigned": {"get": {"security": [{"BearerAuth": []}], "tags": ["mentorship"], "summary": "List unassigned students", "responses": {"200": {"description": "Unassigned students"}}}},
        "/mentor/group": {"get": {"security": [{"BearerAuth": []}], "tags": ["mentorship"], "summary": "Get mentorship group", "responses": {"200": {"description": "Mentorship group"}}}},
        "/mentor/mine": {"get": {"security": [{"BearerAuth": []}], "tags": ["mentorship"], "summary": "List my mentors", "responses": {"200": {"description": "Mentorship history"}}}},
        "/meetings/schedule-group": {"post": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Schedule group meetings", "responses": {"201": {"description": "Meetings scheduled"}}}},
        "/meetings/{id}/update": {"post": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Update meeting group", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Meetings updated"}}}},
        "/meetings/{id}/complete": {"post": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Complete meeting group", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Meetings completed"}}}},
        "/meetings/{id}/cancel": {"post": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Cancel meeting group", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Meetings cancelled"}}}},
        "/meetings/mine": {"get": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "List my meetings", "responses": {"200": {"description": "Meetings"}}}},
        "/reports/mentorship": {"post": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Generate mentorship report", "responses": {"201": {"description": "Report generated"}}}},
        "/records/internships": {"get": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "List internships", "parameters": [{"type": "integer", "in": "query", "name": "studentId"}], "responses": {"200": {"description": "Internships, newest semester first"}, "403": {"description": "Student is outside the caller's scope"}}}},
        "/records/projects": {"get": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "List projects", "parameters": [{"type": "integer", "in": "query", "name": "studentId"}], "responses": {"200": {"description": "Projects, newest semester first"}, "403": {"description": "Student is outside the caller's scope"}}}},
        "/dashboard/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Dashboard statistics", "responses": {"200": {"description": "Dashboard statistics"}}}},
        "/notifications/ws": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Subscribe to live meeting notifications", "responses": {"101": {"description": "Switching Protocols to WebSocket"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "MentorHub API",
	Description:      "Mentorship requests, mentor assignment and group meetings for college departments",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
