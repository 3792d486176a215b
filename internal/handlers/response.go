package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError writes {"error": message}, the shape prediction clients expect
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondMessage writes {"message": message}, the shape catalog clients expect
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
