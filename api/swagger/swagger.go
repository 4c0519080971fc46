package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "VoltRide Dealership API",
        "description": "EV dealership storefront, listing intake and moderation API",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration, login and session management"},
        {"name": "Listings", "description": "Sell-your-EV intake and moderation"},
        {"name": "Vehicles", "description": "Vehicle catalog"},
        {"name": "Batteries", "description": "Battery pack catalog"},
        {"name": "Parts", "description": "Spare parts catalog"},
        {"name": "Reviews", "description": "Customer reviews"},
        {"name": "SEO", "description": "Per-page meta tags"},
        {"name": "Featured", "description": "Homepage featured products"},
        {"name": "Exports", "description": "Admin inventory reports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
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
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a customer account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
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
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the current refresh token",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {"204": {"description": "Revoked"}}
            }
        },
        "/api/v1/listings": {
            "post": {
                "tags": ["Listings"],
                "summary": "Submit a vehicle listing with photos",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "make", "in": "formData", "required": true, "type": "string"},
                    {"name": "model", "in": "formData", "required": true, "type": "string"},
                    {"name": "year", "in": "formData", "required": true, "type": "integer"},
                    {"name": "battery_capacity", "in": "formData", "required": true, "type": "string"},
                    {"name": "condition", "in": "formData", "required": true, "type": "string"},
                    {"name": "mileage", "in": "formData", "required": true, "type": "integer"},
                    {"name": "price", "in": "formData", "required": true, "type": "number"},
                    {"name": "images", "in": "formData", "required": false, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed"}
                }
            },
            "get": {
                "tags": ["Listings"],
                "summary": "List vehicle listings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/listings/{id}": {
            "get": {
                "tags": ["Listings"],
                "summary": "Fetch a single listing",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/admin/listings/{id}/approve": {
            "post": {
                "tags": ["Listings"],
                "summary": "Approve a pending listing and publish it to the catalog",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Listing already reviewed"}
                }
            }
        },
        "/api/v1/admin/listings/{id}/reject": {
            "post": {
                "tags": ["Listings"],
                "summary": "Reject a pending listing, optionally with review notes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RejectListingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Listing already reviewed"}
                }
            }
        },
        "/api/v1/admin/listings/{id}": {
            "delete": {
                "tags": ["Listings"],
                "summary": "Delete a listing and its stored photos",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/vehicles": {
            "get": {
                "tags": ["Vehicles"],
                "summary": "List catalog vehicles",
                "parameters": [
                    {"name": "condition", "in": "query", "type": "string"},
                    {"name": "available", "in": "query", "type": "boolean"},
                    {"name": "featured", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/vehicles/{id}": {
            "get": {
                "tags": ["Vehicles"],
                "summary": "Fetch a vehicle by ID",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/batteries": {
            "get": {
                "tags": ["Batteries"],
                "summary": "List battery packs",
                "parameters": [
                    {"name": "in_stock", "in": "query", "type": "boolean"},
                    {"name": "featured", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/parts": {
            "get": {
                "tags": ["Parts"],
                "summary": "List spare parts",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "in_stock", "in": "query", "type": "boolean"},
                    {"name": "featured", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reviews": {
            "get": {
                "tags": ["Reviews"],
                "summary": "List reviews of a given kind",
                "parameters": [
                    {"name": "kind", "in": "query", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reviews"],
                "summary": "Submit a review",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seo/{page_type}": {
            "get": {
                "tags": ["SEO"],
                "summary": "Fetch meta tags for a storefront page",
                "parameters": [
                    {"name": "page_type", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/featured": {
            "get": {
                "tags": ["Featured"],
                "summary": "Fetch the homepage featured products",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/exports/inventory": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the vehicle inventory as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Inventory report"},
                    "403": {"description": "Exports disabled"}
                }
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
                "phone": {"type": "string"}
            },
            "required": ["email", "password", "full_name"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "RejectListingRequest": {
            "type": "object",
            "properties": {
                "notes": {"type": "string"}
            },
            "required": ["notes"]
        },
        "CreateReviewRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "customer_name": {"type": "string"},
                "rating": {"type": "integer"},
                "review_text": {"type": "string"},
                "verified_purchase": {"type": "boolean"}
            },
            "required": ["kind", "customer_name", "rating", "review_text"]
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

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
