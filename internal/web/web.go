// Package web serves the embedded single-page UI: an address field, fetch
// and load-from-file buttons, status and statistics panels and a scrollable
// chart list. All data flows through the JSON API; this package only ships
// the static page.
package web

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed index.html
var indexHTML []byte

// Register mounts the UI page at the application root.
func Register(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(indexHTML)
	})
}
