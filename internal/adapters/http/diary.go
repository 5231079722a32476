package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery-center/internal/domain"
	"recovery-center/internal/service"
)

func handleListDiary(diary *service.DiaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := diary.List(c.Request.Context(), currentUser(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diary"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleCreateDiary(diary *service.DiaryService) gin.HandlerFunc {
	type req struct {
		Emotion string            `json:"emotion" binding:"required"`
		Content string            `json:"content" binding:"required"`
		Theme   domain.DiaryTheme `json:"theme"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "emotion and content are required"})
			return
		}
		d, err := diary.Create(c.Request.Context(), currentUser(c), body.Emotion, body.Content, body.Theme)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, d)
	}
}

func handleDeleteDiary(diary *service.DiaryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := diary.Delete(c.Request.Context(), currentUser(c), c.Param("id"))
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "entry not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
	}
}
