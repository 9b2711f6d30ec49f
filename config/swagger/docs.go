// Package swagger holds the OpenAPI document served at /swagger/index.html.
// Regenerate with: swag init -o config/swagger --outputTypes go
package swagger

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
        "/ping": {
            "get": {
                "description": "Returns a basic message",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Endpoint just pings the server",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "description": "Uptime and number of live rooms",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/room/{code}": {
            "get": {
                "description": "Existence and occupancy of a room. Unknown codes return exists=false with 200.",
                "produces": ["application/json"],
                "tags": ["room"],
                "summary": "Check a room before joining",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/room/{code}/drawn/{number}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["room"],
                "summary": "Check whether a number was drawn",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "code", "in": "path", "required": true},
                    {"type": "integer", "description": "Number between 1 and 90", "name": "number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "description": "Checks the operator password, opens a session and returns a JWT for the socket.io handshake",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [
                    {"type": "string", "description": "Admin password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/admin/logout": {
            "delete": {
                "description": "Deletes the admin session",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin logout",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/admin/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Current admin",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/admin/rooms": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List live rooms",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/admin/games": {
            "get": {
                "description": "Most recent archived games. 503 when no archive is configured.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Finished games",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of games (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/admin/mirror/rooms": {
            "get": {
                "description": "Room snapshots as stored in Redis. 503 when Redis is not configured.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Mirrored rooms",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/admin/mirror/rooms/{code}": {
            "get": {
                "description": "Snapshot and prize list of one room as stored in Redis.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Mirrored room",
                "parameters": [
                    {"type": "string", "description": "Room code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "503": {"description": "Service Unavailable"}
                }
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
	Title:            "Tombola API",
	Description:      "Gin-Gonic server for the Tombola rooms. Game commands travel over socket.io at /socket.io/.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
