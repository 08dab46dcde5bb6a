package http

import "github.com/labstack/echo/v4"

// Handler is anything that can attach its routes to the server's Echo
// instance before it starts listening.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
