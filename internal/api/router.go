package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/services"
)

// Options configures router construction.
type Options struct {
	DB            *gorm.DB
	JWT           *auth.JWTService
	InviteBaseURL string
	Debug         bool
}

// NewRouter wires services, handlers and middleware into a gin engine.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, errors.New("router: db is required")
	}
	if opts.JWT == nil {
		return nil, errors.New("router: jwt service is required")
	}

	memberships, err := services.NewMembershipService(opts.DB)
	if err != nil {
		return nil, err
	}
	hierarchy, err := services.NewHierarchyService(opts.DB)
	if err != nil {
		return nil, err
	}
	permissions, err := services.NewPermissionService(opts.DB, hierarchy, memberships)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(opts.DB)
	if err != nil {
		return nil, err
	}
	workspaces, err := services.NewWorkspaceService(opts.DB, memberships)
	if err != nil {
		return nil, err
	}
	invites, err := services.NewInviteService(opts.DB, memberships, services.WithInviteBaseURL(opts.InviteBaseURL))
	if err != nil {
		return nil, err
	}
	projects, err := services.NewProjectService(opts.DB, memberships, permissions)
	if err != nil {
		return nil, err
	}
	boards, err := services.NewBoardService(opts.DB, hierarchy, permissions)
	if err != nil {
		return nil, err
	}
	tasks, err := services.NewTaskService(opts.DB, hierarchy, permissions)
	if err != nil {
		return nil, err
	}
	labels, err := services.NewLabelService(opts.DB, hierarchy, memberships, permissions)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(users, opts.JWT)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaces)
	memberHandler := handlers.NewMemberHandler(memberships)
	inviteHandler := handlers.NewInviteHandler(invites)
	projectHandler := handlers.NewProjectHandler(projects)
	boardHandler := handlers.NewBoardHandler(boards)
	taskHandler := handlers.NewTaskHandler(tasks)
	labelHandler := handlers.NewLabelHandler(labels)

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	public := api.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(opts.JWT))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/workspaces", workspaceHandler.Create)
		protected.GET("/workspaces", workspaceHandler.List)
		protected.GET("/workspaces/:workspaceID", workspaceHandler.Get)
		protected.PATCH("/workspaces/:workspaceID", workspaceHandler.Update)
		protected.DELETE("/workspaces/:workspaceID", workspaceHandler.Delete)

		protected.GET("/workspaces/:workspaceID/members", memberHandler.List)
		protected.POST("/workspaces/:workspaceID/members", inviteHandler.DirectAdd)
		protected.PATCH("/workspaces/:workspaceID/members/:userID", memberHandler.Update)
		protected.DELETE("/workspaces/:workspaceID/members/:userID", memberHandler.Remove)

		protected.POST("/workspaces/:workspaceID/invites", inviteHandler.Create)
		protected.GET("/workspaces/:workspaceID/invites/active", inviteHandler.Active)
		protected.GET("/invites/:token", inviteHandler.Preview)
		protected.POST("/invites/:token/accept", inviteHandler.Accept)
		protected.DELETE("/invites/:token", inviteHandler.Deactivate)

		protected.GET("/workspaces/:workspaceID/projects", projectHandler.List)
		protected.POST("/projects", projectHandler.Create)
		protected.GET("/projects/:projectID", projectHandler.Get)
		protected.PATCH("/projects/:projectID", projectHandler.Update)
		protected.DELETE("/projects/:projectID", projectHandler.Delete)

		protected.POST("/boards", boardHandler.Create)
		protected.GET("/boards/:boardID", boardHandler.Get)
		protected.DELETE("/boards/:boardID", boardHandler.Delete)

		protected.POST("/columns", boardHandler.CreateColumn)
		protected.PATCH("/columns/:columnID", boardHandler.UpdateColumn)
		protected.DELETE("/columns/:columnID", boardHandler.DeleteColumn)

		protected.POST("/tasks", taskHandler.Create)
		protected.GET("/tasks/:taskID", taskHandler.Get)
		protected.PATCH("/tasks/:taskID", taskHandler.Update)
		protected.DELETE("/tasks/:taskID", taskHandler.Delete)

		protected.GET("/tasks/:taskID/comments", taskHandler.ListComments)
		protected.POST("/tasks/:taskID/comments", taskHandler.AddComment)

		protected.GET("/workspaces/:workspaceID/labels", labelHandler.List)
		protected.POST("/workspaces/:workspaceID/labels", labelHandler.Create)
		protected.DELETE("/labels/:labelID", labelHandler.Delete)
		protected.PUT("/tasks/:taskID/labels", labelHandler.SetTaskLabels)
	}

	return router, nil
}
