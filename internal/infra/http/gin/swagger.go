package ginserver

import (
	_ "embed"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

// The OpenAPI document and its viewer page ship embedded in the binary so
// the API reference needs no static file mount in deployment.

//go:embed swagger/openapi.json
var openAPIDoc []byte

//go:embed swagger/index.html
var swaggerPage string

func registerSwaggerRoutes(router gin.IRoutes) {
	router.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPIDoc)
	})
	router.GET("/swagger", func(c *gin.Context) {
		page := strings.ReplaceAll(swaggerPage, "{{SPEC_URL}}", "/swagger/doc.json")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	})
}
