package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all business rules live in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, histSvc service.SearchHistoryService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Readiness (DB connectivity) and plain liveness probes
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Document routes: all behind the principal resolver
	docs := app.Group("/documents", middleware.Principal())
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))

	// Search and search-history routes. /history/clear registers before
	// /history/:id so "clear" is not captured as an id.
	search := app.Group("/search", middleware.Principal())
	search.Get("/", SearchDocuments(docSvc))
	search.Get("/tags", HotTags(docSvc))
	search.Get("/history", GetSearchHistory(histSvc))
	search.Delete("/history/clear", ClearSearchHistory(histSvc))
	search.Delete("/history/:id", DeleteSearchHistoryEntry(histSvc))
	search.Delete("/history", DeleteSearchHistoryMatching(histSvc))
}
