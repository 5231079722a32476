package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery-center/internal/service"
)

func handleListPosts(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := posts.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch posts"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleCreatePost(posts *service.PostService) gin.HandlerFunc {
	type req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
			return
		}
		p, err := posts.Create(c.Request.Context(), currentUser(c), body.Title, body.Content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handleDeletePost(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := posts.Delete(c.Request.Context(), c.Param("id"))
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
	}
}

func handleComment(posts *service.PostService) gin.HandlerFunc {
	type req struct {
		Username string `json:"username" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and content are required"})
			return
		}
		p, err := posts.Comment(c.Request.Context(), c.Param("id"), body.Username, body.Content)
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleMeToo(posts *service.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := posts.MeToo(c.Request.Context(), c.Param("id"), currentUser(c))
		switch {
		case errors.Is(err, service.ErrAlreadyReacted):
			c.JSON(http.StatusBadRequest, gin.H{"message": "already clicked Me Too"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to react"})
		default:
			c.JSON(http.StatusOK, p)
		}
	}
}
