// Package docs registers the guardiand OpenAPI document with swag.
// Regenerate with `swag init -g cmd/guardiand/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "codeguardian maintainers"
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
        "/generate": {
            "post": {
                "description": "Wraps the prompt in an instruction/response template and returns the model's first completion. Responds 500 \"Model not loaded\" when the server started without a model.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Generate a completion",
                "parameters": [
                    {
                        "description": "Prompt and optional token budget",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.GenerateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GenerateResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/v1/completions": {
            "post": {
                "description": "Accepts an OpenAI completion request; the prompt is sent to the model verbatim.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "OpenAI-compatible completion",
                "parameters": [
                    {
                        "description": "Completion request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "200 when the model handle loaded at startup, 503 otherwise.",
                "produces": ["text/plain"],
                "tags": ["ops"],
                "summary": "Readiness",
                "responses": {
                    "200": {"description": "ready", "schema": {"type": "string"}},
                    "503": {"description": "unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Server and model status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"description": "Human readable error detail.", "type": "string", "example": "Model not loaded"}
            }
        },
        "types.GenerateRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "max_tokens": {"description": "Maximum number of new tokens to generate. Omitted means 512.", "type": "integer", "example": 128},
                "prompt": {"description": "Required prompt text. It is wrapped in the instruction template before inference.", "type": "string", "example": "Write a hello world"}
            }
        },
        "types.GenerateResponse": {
            "type": "object",
            "properties": {
                "result": {"description": "Text of the first completion choice.", "type": "string", "example": "package main"}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "context_size": {"type": "integer", "example": 4096},
                "error": {"type": "string"},
                "gpu_layers": {"type": "integer", "example": 0},
                "llama_built": {"type": "boolean", "example": true},
                "loaded": {"type": "boolean", "example": true},
                "model_path": {"type": "string", "example": "/models/model.gguf"},
                "reason": {"description": "Failure kind: not_found, runtime_unavailable or load_failed.", "type": "string", "example": "not_found"},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "guardiand API",
	Description:      "HTTP API that forwards prompts to a locally loaded language model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
