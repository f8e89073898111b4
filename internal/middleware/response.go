package middleware

import "github.com/gin-gonic/gin"

// Envolturas uniformes para todas las respuestas de la API.
// Las respuestas exitosas llevan success=true y el payload en data,
// los errores llevan success=false y un mensaje en error.

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Success: false, Error: message})
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message})
}
