package handlers

import (
	"html/template"
	"log"

	"github.com/gin-gonic/gin"
)

var swaggerPage = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
    <style>
        html { box-sizing: border-box; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; padding:0; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                docExpansion: "list",
                tagsSorter: "alpha",
                presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],
                layout: "StandaloneLayout",
                // Accept a bare token in the Authorize dialog.
                requestInterceptor: (request) => {
                    const auth = request.headers.Authorization;
                    if (auth && !auth.startsWith('Bearer ')) {
                        request.headers.Authorization = 'Bearer ' + auth;
                    }
                    return request;
                },
                persistAuthorization: true
            });
        };
    </script>
</body>
</html>
`))

// SwaggerUI serves the API explorer for the document at specURL.
func SwaggerUI(title, specURL string) gin.HandlerFunc {
	data := struct {
		Title   string
		SpecURL string
	}{Title: title, SpecURL: specURL}

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := swaggerPage.Execute(c.Writer, data); err != nil {
			log.Printf("[Swagger] Failed to render UI: %v", err)
		}
	}
}
