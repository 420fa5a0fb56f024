// Package webserve hosts the dashboard files. It serves the configured
// root and redirects / to /frontend/.
package webserve

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func New(root string) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Registered before the static handler so the root path always
	// redirects instead of listing the directory.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/frontend/", fiber.StatusFound)
	})

	app.Static("/", root)

	return app
}

// Listen blocks serving on the given port.
func Listen(app *fiber.App, port int) error {
	return app.Listen(fmt.Sprintf(":%d", port))
}
