package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token"
        }
    },
    "tags": [
        {
            "name": "Users",
            "description": "User registration, login, profile, and preferences"
        },
        {
            "name": "Boards",
            "description": "Board metadata and card list management"
        },
        {
            "name": "Widgets",
            "description": "Widget CRUD and bulk sync"
        },
        {
            "name": "Insights",
            "description": "Click/view recording and analytics queries"
        },
        {
            "name": "System",
            "description": "System-wide route configuration"
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Linkboard API",
	Description:      "API for multi-tenant link boards, widgets, and click/view insights",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
