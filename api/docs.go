package api

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

func swaggerHandler() gin.HandlerFunc {
	ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIDoc)
			return
		}
		ui(c)
	}
}
