package routes

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// uploadImage stores a product or category image under dir and returns the
// public path to save on the record.
func uploadImage(dir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("image")
		if err != nil {
			return badRequest("Failed to get uploaded file")
		}

		// Generate unique filename
		filename := uuid.NewString() + filepath.Ext(file.Filename)
		if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"filename": filename,
			"path":     "/uploads/" + filename,
		})
	}
}
