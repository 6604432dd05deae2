// Package docs содержит swagger-спецификацию HTTP API каталога.
// Обновляется командой: swag init -g cmd/app/main.go
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
        "/products": {
            "get": {
                "description": "По id возвращает один товар, по search — результаты префиксного или семантического поиска, без параметров — весь каталог",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Получение товаров",
                "parameters": [
                    {"type": "integer", "description": "ID товара", "name": "id", "in": "query"},
                    {"type": "string", "description": "Строка поиска", "name": "search", "in": "query"},
                    {"type": "boolean", "description": "Семантический поиск", "name": "useSemanticSearch", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SemanticSearchResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Без product.id создает товар, с product.id — изменяет существующий. Требует пароль администратора",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Создание или изменение товара",
                "parameters": [
                    {"description": "Товар и пароль", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.SaveProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "Товар изменен", "schema": {"$ref": "#/definitions/http.ProductResponse"}},
                    "201": {"description": "Товар создан", "schema": {"$ref": "#/definitions/http.ProductResponse"}},
                    "400": {"description": "Ошибка валидации или неверный пароль", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Товар не найден", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Удаляет товар по id. Удаление несуществующего товара считается успешным",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Удаление товара",
                "parameters": [
                    {"type": "integer", "description": "ID товара", "name": "id", "in": "query", "required": true},
                    {"type": "string", "description": "Пароль администратора", "name": "X-Admin-Password", "in": "header"},
                    {"description": "Пароль администратора", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/http.PasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.DeleteProductResponse"}},
                    "400": {"description": "Неверный пароль", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products/reindex": {
            "post": {
                "description": "Вычисляет эмбеддинги для товаров, у которых их нет",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Пересчет эмбеддингов",
                "parameters": [
                    {"description": "Пароль администратора", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.PasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ReindexResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/images": {
            "post": {
                "description": "Сохраняет изображение в объектном хранилище и возвращает ссылку для поля image",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Загрузка изображения товара",
                "parameters": [
                    {"type": "file", "description": "Изображение (jpeg, png, webp)", "name": "image", "in": "formData", "required": true},
                    {"type": "string", "description": "Пароль администратора", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.UploadImageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "501": {"description": "Хранилище изображений не настроено", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "http.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "image": {"type": "string"},
                "embeddings": {"type": "array", "items": {"type": "number"}}
            }
        },
        "http.ProductInputRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "image": {"type": "string"}
            }
        },
        "http.SaveProductRequest": {
            "type": "object",
            "properties": {
                "product": {"$ref": "#/definitions/http.ProductInputRequest"},
                "password": {"type": "string"}
            }
        },
        "http.PasswordRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            }
        },
        "http.SemanticSearchResponse": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/http.ProductResponse"}},
                "similarities": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "http.DeleteProductResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "status": {"type": "integer"}
            }
        },
        "http.ReindexResponse": {
            "type": "object",
            "properties": {
                "updated": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "http.UploadImageResponse": {
            "type": "object",
            "properties": {
                "image": {"type": "string"},
                "key": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Catalog API",
	Description:      "Каталог товаров с префиксным и семантическим поиском",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
