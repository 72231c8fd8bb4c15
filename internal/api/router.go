package api

import (
	"github.com/gin-gonic/gin"

	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
	"whatsapp-dashboard/internal/ws"
)

func corsMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}

// NewRouter wires every dashboard route. hub may be nil, which disables /ws.
func NewRouter(s *store.Store, svc *service.Service, hub *ws.Hub) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware)

	if hub != nil {
		r.GET("/ws", gin.WrapF(hub.ServeWs))
	}

	dashboardHandler := NewDashboardHandler(s)
	clientHandler := NewClientHandler(s, svc)
	numberCheckHandler := NewNumberCheckHandler(s, svc)
	campaignHandler := NewCampaignHandler(s, svc)
	templateHandler := NewTemplateHandler(s)
	addressHandler := NewAddressHandler(s)
	warmerHandler := NewWarmerHandler(s, svc)
	inboxHandler := NewInboxHandler(s, svc)
	aiHandler := NewAIHandler(s, svc)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/state", dashboardHandler.GetState)
		apiGroup.GET("/dashboard", dashboardHandler.GetDashboard)
		apiGroup.PUT("/settings/theme", dashboardHandler.SetTheme)
		apiGroup.POST("/settings/sidebar/toggle", dashboardHandler.ToggleSidebar)

		clients := apiGroup.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.GET("/stats", clientHandler.Stats)
			clients.GET("/usage", clientHandler.Usage)
			clients.POST("", clientHandler.Create)
			clients.GET("/:id", clientHandler.Get)
			clients.PATCH("/:id", clientHandler.Update)
			clients.PUT("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
			clients.POST("/:id/connect", clientHandler.Connect)
			clients.POST("/:id/disconnect", clientHandler.Disconnect)
		}

		campaigns := apiGroup.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.List)
			campaigns.GET("/stats", campaignHandler.Stats)
			campaigns.POST("", campaignHandler.Create)
			campaigns.GET("/:id", campaignHandler.Get)
			campaigns.GET("/:id/progress", campaignHandler.Progress)
			campaigns.PATCH("/:id", campaignHandler.Update)
			campaigns.PUT("/:id", campaignHandler.Update)
			campaigns.DELETE("/:id", campaignHandler.Delete)
			campaigns.POST("/:id/start", campaignHandler.Start)
		}

		templates := apiGroup.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("", templateHandler.Create)
			templates.GET("/:id", templateHandler.Get)
			templates.PATCH("/:id", templateHandler.Update)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
			templates.POST("/:id/render", templateHandler.Render)
		}

		addresses := apiGroup.Group("/addresses")
		{
			addresses.GET("", addressHandler.List)
			addresses.GET("/stats", addressHandler.Stats)
			addresses.GET("/facets", addressHandler.Facets)
			addresses.GET("/export", addressHandler.Export)
			addresses.POST("", addressHandler.Create)
			addresses.GET("/:id", addressHandler.Get)
			addresses.PATCH("/:id", addressHandler.Update)
			addresses.PUT("/:id", addressHandler.Update)
			addresses.DELETE("/:id", addressHandler.Delete)
		}

		warmer := apiGroup.Group("/warmer-sessions")
		{
			warmer.GET("", warmerHandler.List)
			warmer.GET("/stats", warmerHandler.Stats)
			warmer.GET("/progress", warmerHandler.Progress)
			warmer.POST("", warmerHandler.Create)
			warmer.GET("/:id", warmerHandler.Get)
			warmer.PATCH("/:id", warmerHandler.Update)
			warmer.PUT("/:id", warmerHandler.Update)
			warmer.DELETE("/:id", warmerHandler.Delete)
			warmer.POST("/:id/pause", warmerHandler.Pause())
			warmer.POST("/:id/resume", warmerHandler.Resume())
			warmer.POST("/:id/stop", warmerHandler.Stop())
		}

		conversations := apiGroup.Group("/conversations")
		{
			conversations.GET("", inboxHandler.List)
			conversations.POST("", inboxHandler.Create)
			conversations.GET("/:id", inboxHandler.Get)
			conversations.PATCH("/:id", inboxHandler.Update)
			conversations.PUT("/:id", inboxHandler.Update)
			conversations.DELETE("/:id", inboxHandler.Delete)
			conversations.POST("/:id/messages", inboxHandler.SendMessage)
			conversations.POST("/:id/read", inboxHandler.MarkRead)
		}

		numberCheck := apiGroup.Group("/number-check")
		{
			numberCheck.GET("", numberCheckHandler.List)
			numberCheck.POST("", numberCheckHandler.Check)
			numberCheck.POST("/bulk", numberCheckHandler.CheckBulk)
			numberCheck.POST("/upload", numberCheckHandler.Upload)
			numberCheck.GET("/export", numberCheckHandler.Export)
			numberCheck.DELETE("", numberCheckHandler.Clear)
		}

		ai := apiGroup.Group("/ai")
		{
			ai.GET("/settings", aiHandler.GetSettings)
			ai.PUT("/settings", aiHandler.UpdateSettings)

			ai.GET("/conversations", aiHandler.ListConversations)
			ai.POST("/conversations", aiHandler.StartConversation)
			ai.GET("/conversations/:id", aiHandler.GetConversation)
			ai.DELETE("/conversations/:id", aiHandler.DeleteConversation)
			ai.POST("/conversations/:id/messages", aiHandler.SendMessage)

			ai.GET("/prompts", aiHandler.ListPrompts)
			ai.POST("/prompts", aiHandler.prompts.Create)
			ai.GET("/prompts/:id", aiHandler.prompts.Get)
			ai.PATCH("/prompts/:id", aiHandler.prompts.Update)
			ai.PUT("/prompts/:id", aiHandler.prompts.Update)
			ai.DELETE("/prompts/:id", aiHandler.prompts.Delete)
		}
	}

	return r
}
