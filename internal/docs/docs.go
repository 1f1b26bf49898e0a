// Package docs registra el documento OpenAPI que sirve /swagger/doc.json.
// Se mantiene a mano junto a las anotaciones @Summary/@Description de los
// handlers; cualquier cambio en una anotación se replica acá.
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
        "/intake-logs": {
            "get": {
                "description": "Lista los registros de toma del paciente, más recientes primero.",
                "produces": ["application/json"],
                "tags": ["intake-logs"],
                "summary": "Listar tomas",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "Lista CSV de IDs de medicación", "name": "medication_id", "in": "query"},
                    {"type": "string", "description": "Lista CSV de resultados (taken,missed,skipped)", "name": "outcome", "in": "query"},
                    {"type": "string", "description": "occurred_at mínimo (RFC3339)", "name": "from", "in": "query"},
                    {"type": "string", "description": "occurred_at máximo (RFC3339)", "name": "to", "in": "query"},
                    {"type": "integer", "description": "Máximo de registros (1-500). Por defecto 100", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/intakelogs.intakeLogResponse"}}},
                    "400": {"description": "Parámetros de filtro inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Registra el resultado de una toma (taken, missed, skipped) para una medicación propia y no archivada. Los registros son inmutables.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["intake-logs"],
                "summary": "Registrar toma",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "Datos de la toma; occurred_at en formato RFC3339", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/intakelogs.recordIntakeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/intakelogs.intakeLogResponse"}},
                    "400": {"description": "invalid json / occurred_at inválido / reglas de negocio", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "medication not found", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/medications": {
            "get": {
                "description": "Lista las medicaciones del paciente autenticado. Las archivadas solo se incluyen con ` + "`" + `include_archived=true` + "`" + `.",
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Listar medicaciones",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "boolean", "description": "Incluir medicaciones archivadas", "name": "include_archived", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/medications.medicationResponse"}}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Registra una medicación del paciente autenticado. Si no se indica classification se asume ` + "`" + `prescription` + "`" + `. Autenticación: ` + "`" + `X-Debug-User-ID` + "`" + ` (dev) o ` + "`" + `Authorization: Bearer <token>` + "`" + ` (prod).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Registrar medicación",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "Datos de la medicación", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medications.createMedicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/medications.medicationResponse"}},
                    "400": {"description": "invalid json / fechas inválidas / reglas de negocio", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/medications/{medicationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Obtener medicación",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la medicación", "name": "medicationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medications.medicationResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "medication not found", "schema": {"type": "string"}}
                }
            }
        },
        "/medications/{medicationID}/archive": {
            "post": {
                "description": "Soft delete. Los registros de toma existentes se conservan. Es idempotente.",
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Archivar medicación",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la medicación", "name": "medicationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medications.medicationResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "medication not found", "schema": {"type": "string"}}
                }
            }
        },
        "/medications/{medicationID}/renew": {
            "post": {
                "description": "Extiende active_until. No se permite acortar el período ni renovar una medicación archivada.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medications"],
                "summary": "Renovar medicación",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID de la medicación", "name": "medicationID", "in": "path", "required": true},
                    {"description": "Nueva fecha de fin", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medications.renewMedicationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medications.medicationResponse"}},
                    "400": {"description": "invalid json / fecha inválida / reglas de negocio", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "medication not found", "schema": {"type": "string"}}
                }
            }
        },
        "/reports/adherence": {
            "get": {
                "description": "Calcula el resumen de adherencia del paciente en la ventana pedida. Las fechas aceptan YYYY-MM-DD (día completo UTC) o RFC3339. Sin ventana se usan los últimos días configurados. Con ` + "`" + `include_insights=true` + "`" + ` agrega un texto narrativo; si el servicio externo falla, el resumen igual se devuelve y ` + "`" + `insights.status` + "`" + ` indica la causa.",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Reporte de adherencia",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "Inicio de la ventana (YYYY-MM-DD o RFC3339)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Fin de la ventana (YYYY-MM-DD o RFC3339)", "name": "to", "in": "query"},
                    {"type": "boolean", "description": "Pedir insights narrativos", "name": "include_insights", "in": "query"},
                    {"type": "boolean", "description": "Incluir medicaciones vencidas", "name": "include_expired", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adherence.Report"}},
                    "400": {"description": "parámetros inválidos / ventana inválida", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "adherence.InsightResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string", "enum": ["ok", "rate_limited", "payment_required", "upstream_error", "unavailable"]},
                "text": {"type": "string"}
            }
        },
        "adherence.MedicationStats": {
            "type": "object",
            "properties": {
                "active_days": {"type": "integer"},
                "adherence_rate": {"type": "integer"},
                "classification": {"type": "string", "enum": ["prescription", "one_time", "as_needed"]},
                "dosage": {"type": "string"},
                "expected": {"type": "integer"},
                "medication_id": {"type": "string"},
                "missed": {"type": "integer"},
                "name": {"type": "string"},
                "skipped": {"type": "integer"},
                "slots_per_day": {"type": "integer"},
                "taken": {"type": "integer"}
            }
        },
        "adherence.Period": {
            "type": "object",
            "properties": {
                "days": {"type": "integer"},
                "end": {"type": "string"},
                "start": {"type": "string"}
            }
        },
        "adherence.Report": {
            "type": "object",
            "properties": {
                "insights": {"$ref": "#/definitions/adherence.InsightResult"},
                "summary": {"$ref": "#/definitions/adherence.Summary"}
            }
        },
        "adherence.Summary": {
            "type": "object",
            "properties": {
                "adherence_rate": {"type": "integer"},
                "as_needed": {"type": "array", "items": {"$ref": "#/definitions/adherence.MedicationStats"}},
                "expected_doses": {"type": "integer"},
                "missed_doses": {"type": "integer"},
                "one_time": {"type": "array", "items": {"$ref": "#/definitions/adherence.MedicationStats"}},
                "period": {"$ref": "#/definitions/adherence.Period"},
                "prescriptions": {"type": "array", "items": {"$ref": "#/definitions/adherence.MedicationStats"}},
                "taken_doses": {"type": "integer"},
                "total_medications": {"type": "integer"}
            }
        },
        "intakelogs.intakeLogResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "medication_id": {"type": "string"},
                "occurred_at": {"type": "string"},
                "outcome": {"type": "string", "enum": ["taken", "missed", "skipped"]},
                "recorded_at": {"type": "string"},
                "scheduled_slot": {"type": "string"}
            }
        },
        "intakelogs.recordIntakeRequest": {
            "type": "object",
            "properties": {
                "medication_id": {"type": "string"},
                "occurred_at": {"type": "string"},
                "outcome": {"type": "string", "enum": ["taken", "missed", "skipped"]},
                "scheduled_slot": {"type": "string"}
            }
        },
        "medications.createMedicationRequest": {
            "type": "object",
            "properties": {
                "active_from": {"type": "string"},
                "active_until": {"type": "string"},
                "classification": {"type": "string", "enum": ["prescription", "one_time", "as_needed"]},
                "dosage": {"type": "string"},
                "name": {"type": "string"},
                "schedule_slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "medications.medicationResponse": {
            "type": "object",
            "properties": {
                "active_from": {"type": "string"},
                "active_until": {"type": "string"},
                "classification": {"type": "string", "enum": ["prescription", "one_time", "as_needed"]},
                "created_at": {"type": "string"},
                "dosage": {"type": "string"},
                "id": {"type": "string"},
                "is_archived": {"type": "boolean"},
                "name": {"type": "string"},
                "owner_user_id": {"type": "string"},
                "schedule_slots": {"type": "array", "items": {"type": "string"}},
                "slots_per_day": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "medications.renewMedicationRequest": {
            "type": "object",
            "properties": {
                "active_until": {"type": "string"}
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
	Title:            "Medication Adherence API",
	Description:      "Registro de medicaciones, tomas y reportes de adherencia.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
