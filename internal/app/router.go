package app

import (
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/middleware"
	"skillswap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 用户
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.GET("/users/:id", c.user.GetUser)
		authGroup.GET("/users/:id/rating", c.review.GetUserRating)
		authGroup.GET("/activities", c.user.GetMyActivities)

		// 技能
		authGroup.GET("/skills", c.skill.GetMySkills)
		authGroup.POST("/skills", c.skill.CreateSkill)
		authGroup.DELETE("/skills/:id", c.skill.DeleteSkill)

		// 匹配
		authGroup.POST("/skill-matches", c.match.FindMatches)

		// 交换
		authGroup.POST("/exchanges", c.exchange.CreateExchange)
		authGroup.GET("/exchanges", c.exchange.GetMyExchanges)
		authGroup.GET("/exchanges/:id", c.exchange.GetExchange)
		authGroup.PUT("/exchanges/:id", c.exchange.UpdateExchange)

		// 课时
		authGroup.POST("/sessions", c.session.ScheduleSession)
		authGroup.GET("/sessions", c.session.GetSessions)
		authGroup.PUT("/sessions/:id", c.session.UpdateSession)

		// 评价
		authGroup.POST("/reviews", c.review.CreateReview)

		// 实时协作
		authGroup.GET("/realtime/ws", c.realtime.HandleWS)
		authGroup.GET("/direct-messages/:userId", c.realtime.GetDirectMessages)
	}
}
