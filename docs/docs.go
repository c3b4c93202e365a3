// Package docs 注册 swagger 文档，路由注释见 internal/handler
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/csrf-token": {"get": {"tags": ["auth"], "summary": "Issue a CSRF token", "responses": {"200": {"description": "OK"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a user account", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with email and password", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Exchange a refresh token for a new pair", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/users/me/profile": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Current user with clubs and favorites", "responses": {"200": {"description": "OK"}}}},
        "/users/me/favorites": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Favorite news of the current user", "responses": {"200": {"description": "OK"}}}},
        "/users/me/favorites/{newsId}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Favorite a news item", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Remove a favorite", "responses": {"200": {"description": "OK"}}}
        },
        "/clubs": {
            "get": {"tags": ["clubs"], "summary": "List clubs", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Create a club", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/clubs/{id}": {
            "get": {"tags": ["clubs"], "summary": "Club detail", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Update a club and optionally its leaders", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Delete a club", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/clubs/{id}/request": {"post": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Request to join a club", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/clubs/{id}/requests": {"get": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Pending join requests", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/clubs/{id}/approve/{userId}": {"post": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Approve a join request", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/clubs/{id}/reject/{userId}": {"post": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Reject a join request", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/clubs/{id}/members/{userId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Remove a member", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/clubs/{id}/events": {"post": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Add a club event", "responses": {"201": {"description": "Created"}}}},
        "/clubs/{id}/events/{eventId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["clubs"], "summary": "Remove a club event", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/news": {
            "get": {"tags": ["news"], "summary": "List news, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["news"], "summary": "Publish news", "responses": {"201": {"description": "Created"}}}
        },
        "/news/{slug}": {
            "get": {"tags": ["news"], "summary": "News by slug", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["news"], "summary": "Update news", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["news"], "summary": "Delete news", "responses": {"200": {"description": "OK"}}}
        },
        "/activities/recent": {"get": {"security": [{"BearerAuth": []}], "tags": ["activities"], "summary": "Activities of the last 24 hours, newest first", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Campus Portal API",
	Description:      "Clubs, membership workflow, news and activity feed of the campus portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
