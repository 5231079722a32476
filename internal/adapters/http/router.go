// Package http wires the REST surface and the websocket endpoint.
package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"recovery-center/internal/adapters/ws"
	"recovery-center/internal/config"
	"recovery-center/internal/service"
)

type Services struct {
	Auth   *service.AuthService
	Verify *service.VerifyService
	Posts  *service.PostService
	Diary  *service.DiaryService
	Groups *service.GroupService
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, svc Services, wsCtl *ws.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RecoverySessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", handleSignup(svc.Auth))
	auth.POST("/login", handleLogin(svc.Auth))
	auth.POST("/verify/request", handleVerifyRequest(svc.Verify))
	auth.POST("/verify/confirm", handleVerifyConfirm(svc.Verify))

	authed := api.Group("")
	authed.Use(AuthRequired(svc.Auth))

	api.GET("/posts", handleListPosts(svc.Posts))
	authed.POST("/posts", handleCreatePost(svc.Posts))
	authed.DELETE("/posts/:id", handleDeletePost(svc.Posts))
	authed.POST("/posts/:id/comments", handleComment(svc.Posts))
	authed.POST("/posts/:id/me-too", handleMeToo(svc.Posts))

	authed.GET("/diary", handleListDiary(svc.Diary))
	authed.POST("/diary", handleCreateDiary(svc.Diary))
	authed.DELETE("/diary/:id", handleDeleteDiary(svc.Diary))

	api.GET("/groups", handleListGroups(svc.Groups))
	authed.POST("/groups", handleCreateGroup(svc.Groups))
	authed.DELETE("/groups/:id", handleDeleteGroup(svc.Groups))
	authed.POST("/groups/join", handleJoinGroup(svc.Groups))
	authed.POST("/groups/leave", handleLeaveGroup(svc.Groups))

	api.GET("/ws", func(c *gin.Context) {
		wsCtl.Handle(ctx, c)
	})

	return r
}
