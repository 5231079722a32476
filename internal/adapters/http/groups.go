package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery-center/internal/domain"
	"recovery-center/internal/service"
)

func handleListGroups(groups *service.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := groups.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch groups"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleCreateGroup(groups *service.GroupService) gin.HandlerFunc {
	type req struct {
		Name     string `json:"name" binding:"required"`
		Limit    int    `json:"limit" binding:"required"`
		Category string `json:"category" binding:"required"`
		Desc     string `json:"desc" binding:"required"`
		Nickname string `json:"nickname" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields"})
			return
		}
		g, err := groups.Create(c.Request.Context(), currentUser(c), body.Nickname, body.Name, body.Limit, body.Category, body.Desc)
		if errors.Is(err, service.ErrAlreadyInGroup) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already joined a group"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, g)
	}
}

func handleDeleteGroup(groups *service.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := groups.Delete(c.Request.Context(), currentUser(c), domain.GroupID(c.Param("id")))
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "group not found"})
		case errors.Is(err, service.ErrNotCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the creator may delete the group"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete group"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
		}
	}
}

func handleJoinGroup(groups *service.GroupService) gin.HandlerFunc {
	type req struct {
		GroupID  string `json:"groupId" binding:"required"`
		Nickname string `json:"nickname" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "groupId and nickname are required"})
			return
		}
		err := groups.Join(c.Request.Context(), currentUser(c), domain.GroupID(body.GroupID), body.Nickname)
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "group not found"})
		case errors.Is(err, service.ErrGroupFull):
			c.JSON(http.StatusBadRequest, gin.H{"error": "group is full"})
		case errors.Is(err, service.ErrAlreadyInGroup):
			c.JSON(http.StatusBadRequest, gin.H{"error": "already joined a group"})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "joined group successfully"})
		}
	}
}

func handleLeaveGroup(groups *service.GroupService) gin.HandlerFunc {
	type req struct {
		GroupID string `json:"groupId" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "groupId is required"})
			return
		}
		err := groups.Leave(c.Request.Context(), currentUser(c), domain.GroupID(body.GroupID))
		switch {
		case errors.Is(err, service.ErrNotGroupMember):
			c.JSON(http.StatusBadRequest, gin.H{"error": "not a member of this group"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave group"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "left group"})
		}
	}
}
