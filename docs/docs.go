// Package docs registers the API's swagger document
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/stats/campaigns": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Per-campaign and combined order, meal, pickup location, SMS, data quality and cost statistics",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin Stats"],
                "summary": "Campaign Statistics",
                "parameters": [
                    {
                        "description": "Campaign ids",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CampaignStatsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/stats/compare-campaigns": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Presence diff and per-customer meal deltas of each compare campaign against the baseline",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin Stats"],
                "summary": "Compare Campaigns",
                "parameters": [
                    {
                        "description": "Baseline and compare campaign ids",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CompareCampaignsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/stats/compare-campaigns/export": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Admin Stats"],
                "summary": "Export Campaign Comparison (Excel)",
                "parameters": [
                    {
                        "description": "Baseline and compare campaign ids",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CompareCampaignsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Excel file", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.CampaignStatsRequest": {
            "type": "object",
            "required": ["campaignIds"],
            "properties": {
                "campaignIds": {
                    "type": "array",
                    "maxItems": 50,
                    "minItems": 1,
                    "items": {"type": "string"}
                }
            }
        },
        "dto.CompareCampaignsRequest": {
            "type": "object",
            "required": ["baselineCampaignId", "compareCampaignIds"],
            "properties": {
                "baselineCampaignId": {"type": "string", "maxLength": 64},
                "compareCampaignIds": {
                    "type": "array",
                    "maxItems": 50,
                    "minItems": 1,
                    "items": {"type": "string"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Meal Campaign Stats API",
	Description:      "Campaign statistics, cross-campaign comparison and Excel export for meal campaigns",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
