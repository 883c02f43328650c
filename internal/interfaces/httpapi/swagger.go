package httpapi

import (
	_ "embed"
	"net/http"
	"strings"
)

const openAPIPath = "/openapi.yaml"

//go:embed openapi.yaml
var openAPISpec []byte

// swaggerPage loads swagger-ui from unpkg and points it at the embedded document.
var swaggerPage = []byte(strings.ReplaceAll(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Teamsheet API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: '{{spec}}', dom_id: '#swagger-ui', deepLinking: true });
  </script>
</body>
</html>`, "{{spec}}", openAPIPath))

func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	h.writeStatic(w, r, "application/yaml; charset=utf-8", openAPISpec)
}

func (h *Handler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	h.writeStatic(w, r, "text/html; charset=utf-8", swaggerPage)
}

func (h *Handler) writeStatic(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(r.Context(), "write static document failed", "path", r.URL.Path, "error", err)
	}
}
