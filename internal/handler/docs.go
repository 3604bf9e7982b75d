package handler

import (
	_ "embed"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Swagger UI shell loaded from a CDN; the page fetches /openapi.yaml at runtime,
// so the contract file stays editable without a rebuild.
//
//go:embed swagger.html
var swaggerPage string

// openAPIPath is resolved relative to the working directory at startup.
const openAPIPath = "api/openapi.yaml"

// RegisterDocs mounts the API documentation at the root, outside the
// authenticated /api/v1 group: GET /openapi.yaml serves the raw contract and
// GET /docs renders it with Swagger UI.
func RegisterDocs(r *gin.Engine) {
	r.GET("/openapi.yaml", func(c *gin.Context) {
		data, err := os.ReadFile(openAPIPath)
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to read openapi contract: %v", err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", data)
	})
	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
	})
}
