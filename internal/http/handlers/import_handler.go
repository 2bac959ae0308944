package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	applog "twinkle/internal/log"
	"twinkle/internal/services"
)

type ImportHandler struct {
	Imports *services.ImportService
}

// Enqueue accepts a multipart upload of one or more images and queues them
// as pending.
func (h *ImportHandler) Enqueue(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expected multipart upload"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no images uploaded"})
	}

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
		}
		mime := fh.Header.Get("Content-Type")
		if mime == "" {
			mime = "image/jpeg"
		}
		h.Imports.Enqueue(fh.Filename, mime, data)
	}

	applog.Audit(c, "admin.import.enqueue", map[string]any{"files": len(files)})
	return c.JSON(fiber.Map{"queue": h.Imports.Queue()})
}

// Run processes the whole batch sequentially before responding; the queue
// endpoint reports per-item status.
func (h *ImportHandler) Run(c *fiber.Ctx) error {
	if err := h.Imports.Run(c.Context(), currentUser(c)); err != nil {
		applog.Error(c, "admin.import.run.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "import failed"})
	}
	applog.Audit(c, "admin.import.run", nil)
	return c.JSON(fiber.Map{"queue": h.Imports.Queue()})
}

// Queue returns the batch in submission order with per-item status.
func (h *ImportHandler) Queue(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"queue": h.Imports.Queue()})
}

// Reset drops the current batch.
func (h *ImportHandler) Reset(c *fiber.Ctx) error {
	h.Imports.Reset()
	return c.JSON(fiber.Map{"queue": h.Imports.Queue()})
}
