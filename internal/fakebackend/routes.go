package fakebackend

import (
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the backend routes
func SetupRoutes(b *Backend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(Record(b))

	handler := NewHandler(b)
	router.POST("/submit", handler.Submit)
	router.GET("/ranking", handler.GetRanking)
	router.GET("/report/*repo_url", handler.GetReport)

	return router
}

// NewServer starts an httptest server over a fresh backend.
// Callers must Close the server.
func NewServer() (*httptest.Server, *Backend) {
	b := New()
	return httptest.NewServer(SetupRoutes(b)), b
}
