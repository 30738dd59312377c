package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weathercast/internal/location"
	"github.com/i474232898/weathercast/internal/render"
	"github.com/i474232898/weathercast/internal/weather"
)

var validate = validator.New()

// weatherResponse is the body of every successful weather endpoint.
type weatherResponse struct {
	weather.Result
	Presentation render.Presentation `json:"presentation"`
}

func newWeatherResponse(res weather.Result) weatherResponse {
	return weatherResponse{
		Result:       res,
		Presentation: render.PresentationFor(res.Record.Condition),
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, resolver *location.Resolver) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := location.FromUserInput(c.Query("city"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, location.Message(err))
		}

		res := service.Resolve(c.UserContext(), q)
		return c.JSON(newWeatherResponse(res))
	})

	v1.Get("/weather/coords", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res := service.Resolve(c.UserContext(), q)
		return c.JSON(newWeatherResponse(res))
	})

	v1.Get("/weather/initial", func(c *fiber.Ctx) error {
		q := service.InitialQuery(c.UserContext())
		res := service.Resolve(c.UserContext(), q)
		return c.JSON(newWeatherResponse(res))
	})

	v1.Get("/weather/locate", func(c *fiber.Ctx) error {
		q, err := resolver.FromDevice(c.UserContext())
		if err != nil {
			return fiber.NewError(locateStatus(err), location.Message(err))
		}

		res := service.Resolve(c.UserContext(), q)
		return c.JSON(newWeatherResponse(res))
	})
}

// coordsQuery holds query parameters for a coordinate lookup. Values stay
// strings so that 0 is accepted as a coordinate.
type coordsQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func parseCoordsQuery(c *fiber.Ctx) (weather.Query, error) {
	req := coordsQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(req); err != nil {
		return weather.Query{}, errors.New("lat and lon must be valid coordinates")
	}

	lat, err := strconv.ParseFloat(req.Lat, 64)
	if err != nil {
		return weather.Query{}, errors.New("invalid lat parameter")
	}
	lon, err := strconv.ParseFloat(req.Lon, 64)
	if err != nil {
		return weather.Query{}, errors.New("invalid lon parameter")
	}
	return weather.ByCoordinates(lat, lon), nil
}

func locateStatus(err error) int {
	switch {
	case errors.Is(err, location.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, location.ErrPositionUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, location.ErrGeolocationUnsupported):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusBadGateway
	}
}
