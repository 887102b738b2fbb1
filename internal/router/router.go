package router

import (
	"net/http"
	"time"

	"zomaksho/internal/analytics"
	"zomaksho/internal/auth"
	"zomaksho/internal/catalog"
	"zomaksho/internal/chat"
	"zomaksho/internal/coupon"
	"zomaksho/internal/middleware"
	"zomaksho/internal/rewards"
	"zomaksho/internal/search"
	"zomaksho/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Sessions    *session.Manager
	CORSOrigins []string

	Auth      *auth.Handler
	Search    *search.Handler
	Chat      *chat.Handler
	Catalog   *catalog.Handler
	Coupons   *coupon.Handler
	Analytics *analytics.Handler
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.Auth(d.Sessions)

	// ───────────────────────── AUTH ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", d.Auth.Guest)
		authGroup.POST("/login", d.Auth.Login)
		authGroup.POST("/admin/login", d.Auth.AdminLogin)

		authGroup.GET("/me", requireSession, d.Auth.Me)
		authGroup.POST("/logout", requireSession, d.Auth.Logout)
	}

	// ───────────────────────── DINER ROUTES ─────────────────────────
	diner := r.Group("")
	diner.Use(requireSession)
	{
		diner.POST("/search", d.Search.Search)
		diner.GET("/search/state", d.Search.GetState)
		diner.DELETE("/search/state", d.Search.ClearState)

		diner.GET("/chat/messages", d.Chat.ListMessages)
		diner.POST("/chat/messages", d.Chat.SendMessage)
		diner.DELETE("/chat/messages", d.Chat.ClearMessages)
		diner.GET("/ws/chat", d.Chat.ServeWS)

		diner.GET("/catalog/dishes", d.Catalog.ListDishes)
		diner.GET("/catalog/categories", d.Catalog.ListCategories)
		diner.GET("/coupons/surprise", d.Coupons.Surprise)
		diner.GET("/rewards", rewards.Handle)
	}

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		requireSession,
		middleware.RequireRole(session.RoleAdmin),
	)
	{
		admin.GET("/analytics/summary", d.Analytics.Summary)
		admin.GET("/analytics/revenue", d.Analytics.Revenue)
		admin.GET("/analytics/cuisines", d.Analytics.Cuisines)
		admin.GET("/analytics/activity", d.Analytics.Activity)
		admin.GET("/analytics/predictions", d.Analytics.Predictions)
		admin.GET("/analytics/searches", d.Analytics.Searches)
		admin.POST("/reports/searches", d.Analytics.ExportSearches)
	}

	return r
}
