// Package docs holds the OpenAPI description served by gin-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/connections/linkedin": {
            "get": {
                "produces": ["application/json"],
                "tags": ["connections"],
                "summary": "LinkedIn connection status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ConnectionStatus"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/apperror.HTTPError"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/apperror.HTTPError"}}
                }
            },
            "delete": {
                "tags": ["connections"],
                "summary": "Disconnect LinkedIn",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/apperror.HTTPError"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/apperror.HTTPError"}}
                }
            }
        },
        "/connections/linkedin/authorize": {
            "get": {
                "description": "Redirects the signed-in user to LinkedIn's consent page",
                "tags": ["connections"],
                "summary": "Start LinkedIn connection",
                "responses": {
                    "302": {"description": "Found"},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/apperror.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.HTTPError"}}
                }
            }
        },
        "/connections/linkedin/callback": {
            "get": {
                "description": "Exchanges the authorization code and stores the connection, then redirects to the settings page",
                "tags": ["connections"],
                "summary": "LinkedIn OAuth callback",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query"},
                    {"type": "string", "description": "State issued by /authorize", "name": "state", "in": "query"},
                    {"type": "string", "description": "Provider error code", "name": "error", "in": "query"},
                    {"type": "string", "description": "Provider error description", "name": "error_description", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Found"}
                }
            }
        }
    },
    "definitions": {
        "apperror.HTTPError": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "unauthorized"}
            }
        },
        "types.ConnectionStatus": {
            "type": "object",
            "properties": {
                "connected": {"type": "boolean", "example": true},
                "expired": {"type": "boolean"},
                "external_profile_id": {"type": "string", "example": "782bbtaQ"},
                "token_expires_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LFU Sys Connections API",
	Description:      "Connects LFU Sys accounts to LinkedIn",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
