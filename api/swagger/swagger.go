package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduHub Moderation API",
        "description": "Moderation gateway for instructor and partner revision requests",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Revisions", "description": "Pending revision queues and approve/reject decisions"},
        {"name": "Audit", "description": "Local administrator decision trail"},
        {"name": "Exports", "description": "Decision report downloads"}
    ],
    "paths": {
        "/revisions/{entityType}": {
            "get": {
                "tags": ["Revisions"],
                "summary": "List pending revision requests",
                "parameters": [
                    {"name": "entityType", "in": "path", "required": true, "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "subType", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string", "enum": ["CREATE", "UPDATE"]},
                    {"name": "dateSort", "in": "query", "type": "string", "enum": ["OLDEST", "NEWEST"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/revisions/{entityType}/refresh": {
            "post": {
                "tags": ["Revisions"],
                "summary": "Force a pending-queue refresh from the upstream backend",
                "parameters": [
                    {"name": "entityType", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/revisions/{entityType}/{id}": {
            "get": {
                "tags": ["Revisions"],
                "summary": "Get one revision request with its field diff",
                "parameters": [
                    {"name": "entityType", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/revisions/{entityType}/{id}/approve": {
            "post": {
                "tags": ["Revisions"],
                "summary": "Approve a pending revision request",
                "parameters": [
                    {"name": "entityType", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "A decision is already in flight"},
                    "409": {"description": "Already reviewed"}
                }
            }
        },
        "/revisions/{entityType}/{id}/reject": {
            "post": {
                "tags": ["Revisions"],
                "summary": "Reject a pending revision request",
                "parameters": [
                    {"name": "entityType", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectRevisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing rejection reason"}
                }
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List administrator decisions",
                "parameters": [
                    {"name": "entityType", "in": "query", "type": "string"},
                    {"name": "adminId", "in": "query", "type": "string"},
                    {"name": "decision", "in": "query", "type": "string", "enum": ["APPROVED", "REJECTED"]},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/decisions": {
            "post": {
                "tags": ["Exports"],
                "summary": "Create a signed download link for a decision report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportLinkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/decisions/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a decision report via a signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"},
                    {"name": "entityType", "in": "query", "type": "string"},
                    {"name": "decision", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"},
                    "401": {"description": "Invalid or expired link"}
                }
            }
        }
    },
    "definitions": {
        "RevisionRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "entityType": {"type": "string"},
                "kind": {"type": "string", "enum": ["CREATE", "UPDATE"]},
                "original": {"type": "object"},
                "proposed": {"type": "object"},
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]},
                "adminNote": {"type": "string"},
                "submitter": {"$ref": "#/definitions/SubmitterInfo"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "invalid": {"type": "boolean"}
            }
        },
        "SubmitterInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fullName": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "DiffRow": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "original": {"type": "string"},
                "proposed": {"type": "string"},
                "changed": {"type": "boolean"}
            }
        },
        "RejectRevisionRequest": {
            "type": "object",
            "properties": {
                "adminNote": {"type": "string"}
            },
            "required": ["adminNote"]
        },
        "ExportLinkRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
        },
        "DecisionAudit": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "adminId": {"type": "string"},
                "entityType": {"type": "string"},
                "requestId": {"type": "string"},
                "kind": {"type": "string"},
                "decision": {"type": "string"},
                "adminNote": {"type": "string"},
                "decidedAt": {"type": "string"}
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
                "pagination": {"type": "object"},
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
