// Package docs holds the OpenAPI document served by gin-swagger.
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
    "securityDefinitions": {
        "BasicAuth": {"type": "basic"}
    },
    "security": [{"BasicAuth": []}],
    "paths": {
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List the caller's orders",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderListResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create an order reserving stock for every line",
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/HTTPError"}},
                    "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/HTTPError"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Order detail with lines and addresses",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Order"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/HTTPError"}}
                }
            }
        },
        "/orders/{id}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Current order status",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Result"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/HTTPError"}}
                }
            }
        },
        "/orders/{id}/cancel": {
            "post": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Cancel an order and restock its lines",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Result"}},
                    "400": {"description": "Already canceled", "schema": {"$ref": "#/definitions/HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "HTTPError": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "insufficient_stock"},
                "msg": {"type": "string"}
            }
        },
        "Result": {
            "type": "object",
            "properties": {
                "order_id": {"type": "integer", "example": 12},
                "status": {"type": "string", "example": "CONFIRMED"}
            }
        },
        "CreateOrderItem": {
            "type": "object",
            "required": ["listing_id", "quantity"],
            "properties": {
                "listing_id": {"type": "integer", "example": 4},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "AddressInput": {
            "type": "object",
            "required": ["street", "number", "neighborhood", "city", "state", "country", "zip_code"],
            "properties": {
                "street": {"type": "string", "example": "Rua das Flores"},
                "number": {"type": "string", "example": "42"},
                "complement": {"type": "string"},
                "neighborhood": {"type": "string", "example": "Centro"},
                "city": {"type": "string", "example": "Curitiba"},
                "state": {"type": "string", "example": "PR"},
                "country": {"type": "string", "example": "Brasil"},
                "zip_code": {"type": "string", "example": "80010-000"}
            }
        },
        "CreateOrderRequest": {
            "type": "object",
            "required": ["items", "billing_address", "delivery_address"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/CreateOrderItem"}},
                "billing_address": {"$ref": "#/definitions/AddressInput"},
                "delivery_address": {"$ref": "#/definitions/AddressInput"}
            }
        },
        "Line": {
            "type": "object",
            "properties": {
                "listing_id": {"type": "integer"},
                "name": {"type": "string"},
                "version": {"type": "string"},
                "condition": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "string", "example": "29.99"}
            }
        },
        "Address": {
            "type": "object",
            "properties": {
                "street": {"type": "string"},
                "number": {"type": "string"},
                "complement": {"type": "string"},
                "neighborhood": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "country": {"type": "string"},
                "zip_code": {"type": "string"},
                "is_billing_address": {"type": "boolean"},
                "is_delivery_address": {"type": "boolean"}
            }
        },
        "Order": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["PENDING_PAYMENT", "PAYMENT_CONFIRMED", "CONFIRMED", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELED"]},
                "total": {"type": "string", "example": "89.97"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/Line"}},
                "billing_address": {"$ref": "#/definitions/Address"},
                "delivery_address": {"$ref": "#/definitions/Address"}
            }
        },
        "OrderListResponse": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/Order"}}
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
	Title:            "cardstore order-service",
	Description:      "Order lifecycle: creation with stock reservation and cancellation with restock.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
