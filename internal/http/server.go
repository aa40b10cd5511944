// Package http wires the echo server, middleware, and route table.
package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/http/handler"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
)

type ServerDependencies struct {
	Config   *config.Config
	Files    handler.FileManager
	Versions handler.VersionManager
	Shares   handler.ShareManager
	Searcher handler.Searcher
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit: fmt.Sprintf("%dM", deps.Config.App.MaxUploadSize>>20),
	}))

	fileHandler := handler.NewFileHandler(deps.Files, deps.Searcher)
	versionHandler := handler.NewVersionHandler(deps.Versions)
	shareHandler := handler.NewShareHandler(deps.Shares)

	e.GET("/health", healthCheck)

	// Shared downloads authorize by token alone.
	e.GET("/shared/:token", shareHandler.Download)

	api := e.Group("/api/v1", auth.RequireIdentity())

	api.POST("/folders/:folderId/files", fileHandler.Upload)
	api.GET("/folders/:folderId/files", fileHandler.ListByFolder)

	api.GET("/files/search", fileHandler.Search)
	api.GET("/files/:fileId", fileHandler.Get)
	api.PATCH("/files/:fileId", fileHandler.Update)
	api.DELETE("/files/:fileId", fileHandler.Delete)
	api.GET("/files/:fileId/download", fileHandler.Download)
	api.GET("/files/:fileId/preview", fileHandler.Preview)

	api.POST("/files/:fileId/versions", versionHandler.Upload)
	api.GET("/files/:fileId/versions", versionHandler.List)
	api.POST("/versions/:versionId/restore", versionHandler.Restore)
	api.POST("/versions/:versionId/final", versionHandler.MarkFinal)
	api.GET("/versions/:versionId/download", versionHandler.Download)

	api.POST("/files/:fileId/shares", shareHandler.Create)
	api.GET("/files/:fileId/shares", shareHandler.List)
	api.DELETE("/shares/:shareId", shareHandler.Revoke)

	return &Server{echo: e, deps: deps}
}

func (s *Server) Start() error {
	return s.echo.Start(":" + s.deps.Config.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{jsonKeyStatus: statusOK})
}
