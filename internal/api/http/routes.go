package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/airmet/air-quality-monitor/internal/airquality"
	"github.com/airmet/air-quality-monitor/internal/airquality/providers"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *airquality.Service) {
	v1 := app.Group("/api/v1")

	// Runs the full pipeline for a free-text address: geocode, fetch the
	// hourly window, derive statistics and charts, persist the document.
	v1.Get("/airquality", func(c *fiber.Ctx) error {
		req, err := parseAddressQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Fetch(c.UserContext(), req.Address)
		if err != nil {
			return mapPipelineError(err)
		}
		return c.JSON(view)
	})

	// Returns the currently displayed view without touching the network.
	v1.Get("/airquality/current", func(c *fiber.Ctx) error {
		view, err := service.Current()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no data fetched or loaded yet")
		}
		return c.JSON(view)
	})

	// Replays the display pipeline from an uploaded document. The body is
	// the JSON file the user picked; a malformed file leaves the current
	// view untouched.
	v1.Post("/airquality/load", func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "request body must contain a saved document")
		}

		view, err := service.LoadDocument(body)
		if err != nil {
			if errors.Is(err, airquality.ErrInvalidDocument) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load document")
		}
		return c.JSON(view)
	})

	// Lists past successful queries, newest first.
	v1.Get("/history", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		records, err := service.History(limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list query history")
		}
		if records == nil {
			records = []airquality.QueryRecord{}
		}
		return c.JSON(fiber.Map{"queries": records})
	})
}

func mapPipelineError(err error) error {
	switch {
	case errors.Is(err, airquality.ErrEmptyAddress):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, providers.ErrNoResults):
		return fiber.NewError(fiber.StatusNotFound, "address not found")
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch air quality data")
	}
}

// addressQuery holds the query parameters for the fetch endpoint.
type addressQuery struct {
	Address string `validate:"required"`
}

func parseAddressQuery(c *fiber.Ctx) (addressQuery, error) {
	q := addressQuery{Address: c.Query("address")}
	if err := validate.Struct(q); err != nil {
		return q, errors.New("address query parameter is required")
	}
	return q, nil
}
