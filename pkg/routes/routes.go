package pkg

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"hostelsaathi/internal/account"
	"hostelsaathi/internal/config"
	"hostelsaathi/internal/issue"
	"hostelsaathi/internal/worker"
	"hostelsaathi/pkg/middleware"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewTokenConfig),
	fx.Provide(config.NewUploadConfig),
	fx.Provide(config.NewUploadService),
	fx.Provide(account.NewAccountStore),
	fx.Provide(account.NewTokenService),
	fx.Provide(account.NewAccountService),
	fx.Provide(account.NewAccountHandler),
	fx.Provide(worker.NewWorkerStore),
	fx.Provide(worker.NewWorkerService),
	fx.Provide(worker.NewWorkerHandler),
	fx.Provide(issue.NewIssueStore),
	fx.Provide(issue.NewIssueService),
	fx.Provide(issue.NewIssueHandler),
	fx.Provide(middleware.NewAuth),
	fx.Invoke(account.EnsureIndexes),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{corsOrigin()},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(bodyLimit())

	port := ":" + serverPort()
	log.Println("Server running on http://localhost" + port[1:])
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(port); err != nil {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// bodyLimit keeps JSON and form bodies small while leaving room for
// multipart uploads (avatars, issue images) up to 25M.
func bodyLimit() echo.MiddlewareFunc {
	small := echomw.BodyLimit("16K")
	large := echomw.BodyLimit("25M")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contentType := c.Request().Header.Get(echo.HeaderContentType)
			if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
				return large(next)(c)
			}
			return small(next)(c)
		}
	}
}

func corsOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:5173"
}

func serverPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

func RegisterRoutes(
	e *echo.Echo,
	auth *middleware.Auth,
	accountHandler *account.AccountHandler,
	issueHandler *issue.IssueHandler,
	workerHandler *worker.WorkerHandler,
) {
	api := e.Group("/api/v1")

	student := api.Group("/student")
	student.POST("/register", accountHandler.RegisterStudent)
	student.POST("/login", accountHandler.LoginStudent)
	student.POST("/refresh-token", accountHandler.RefreshToken)
	student.POST("/logout", accountHandler.Logout, auth.Authenticate)
	student.POST("/change-password", accountHandler.ChangePassword, auth.Authenticate)
	student.GET("/me", accountHandler.CurrentUser, auth.Authenticate)

	admin := api.Group("/admin")
	admin.POST("/register", accountHandler.RegisterAdmin)
	admin.POST("/login", accountHandler.LoginAdmin)
	admin.POST("/refresh-token", accountHandler.RefreshToken)
	admin.POST("/logout", accountHandler.Logout, auth.Authenticate)
	admin.POST("/change-password", accountHandler.ChangePassword, auth.Authenticate)
	admin.GET("/me", accountHandler.CurrentUser, auth.Authenticate)
	admin.GET("/all", accountHandler.GetAllAdmins, auth.Authenticate, auth.AdminOnly)

	issues := api.Group("/issue", auth.Authenticate)
	issues.GET("/all", issueHandler.GetAllIssues)
	issues.GET("", issueHandler.GetIssueByID)
	issues.POST("", issueHandler.PostIssue)
	issues.POST("/assign-worker", issueHandler.AssignWorker, auth.AdminOnly)
	issues.POST("/set-priority", issueHandler.SetPriority, auth.AdminOnly)

	workers := api.Group("/worker", auth.Authenticate, auth.AdminOnly)
	workers.GET("/all", workerHandler.GetAllWorkers)
	workers.GET("", workerHandler.GetWorkerByID)
}
