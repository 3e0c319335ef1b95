package handlers

import (
	"net/http"
	"time"

	"socialfeed/internal/logger"
	"socialfeed/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options toggles optional router features.
type Options struct {
	CORSOrigins []string // empty allows any origin
	Pprof       bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(h.corsConfig()))

	if h.opts.Pprof {
		pprof.Register(router)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	router.GET("/images/:kind/:name", h.getImage)

	api := router.Group("/api")
	h.registerAuthRoutes(api)
	api.GET("/users/:uid", h.getUser)

	protected := api.Group("", h.userIdMiddleware)
	{
		h.registerUserRoutes(protected)
		h.registerPostRoutes(protected)
		protected.GET("/ws/feed", h.wsFeed)
	}

	return router
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(h.opts.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.opts.CORSOrigins
	}
	return cfg
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
	}
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("", h.listUsers)
		users.PUT("/:uid", h.ownerOnly, h.updateUser)
		users.DELETE("/:uid", h.ownerOnly, h.deleteUser)
		users.PUT("/:uid/profile-picture", h.ownerOnly, h.updateProfilePicture)
		users.PUT("/:uid/banner-picture", h.ownerOnly, h.updateBannerPicture)

		users.GET("/:uid/follows", h.listFollowing)
		users.GET("/:uid/follows/:followed_uid", h.checkFollow)
		users.POST("/:uid/follows/:followed_uid", h.ownerOnly, h.follow)
		users.DELETE("/:uid/follows/:followed_uid", h.ownerOnly, h.unfollow)

		users.GET("/:uid/posts", h.listUserPosts)
		users.POST("/:uid/posts", h.ownerOnly, h.createPost)
		users.GET("/:uid/posts/feed", h.ownerOnly, h.feed)
		users.DELETE("/:uid/posts/:pid", h.ownerOnly, h.deletePost)

		users.GET("/:uid/posts/:pid/likes", h.checkLike)
		users.POST("/:uid/posts/:pid/likes", h.ownerOnly, h.like)
		users.DELETE("/:uid/posts/:pid/likes", h.ownerOnly, h.unlike)

		users.GET("/:uid/posts/:pid/comments", h.listUserComments)
		users.POST("/:uid/posts/:pid/comments", h.ownerOnly, h.addComment)
	}
}

func (h *Handler) registerPostRoutes(api *gin.RouterGroup) {
	posts := api.Group("/posts")
	{
		posts.GET("", h.listPosts)
		posts.GET("/:pid", h.getPost)
		posts.GET("/:pid/likes", h.listLikes)
		posts.GET("/:pid/comments", h.listComments)
	}
}

// @Summary  Health check
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
