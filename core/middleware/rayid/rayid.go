package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the request correlation ID on responses and may be
// supplied by clients to propagate an upstream ID.
const Header = "X-Ray-ID"

// New returns a middleware that assigns every request a ray ID. A
// client-supplied X-Ray-ID is kept, otherwise a fresh UUID is
// generated. The ID is stored in Locals under "ray_id" and echoed on
// the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
