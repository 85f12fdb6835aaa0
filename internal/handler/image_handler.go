package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/imaginet-backend/internal/middleware"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/internal/service"
	"go.uber.org/zap"
)

type ImageHandler struct {
	imageService *service.ImageService
	log          *zap.Logger
}

func NewImageHandler(imageService *service.ImageService, log *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		log:          log.Named("images"),
	}
}

func (h *ImageHandler) GetUserImages(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	images, err := h.imageService.GetUserImages(c.UserContext(), clerkID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(images, "Images retrieved successfully"))
}

func (h *ImageHandler) AddImage(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.AddImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	image, err := h.imageService.AddImage(c.UserContext(), clerkID, req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(image, "Image saved"))
}

func (h *ImageHandler) UploadImage(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No file uploaded"))
	}

	uploaded, err := h.imageService.UploadImage(c.UserContext(), clerkID, file)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(uploaded, "Image uploaded"))
}

func (h *ImageHandler) GetImage(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	image, err := h.imageService.GetUserImage(c.UserContext(), clerkID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(image, ""))
}

func (h *ImageHandler) UpdateImage(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	image, err := h.imageService.UpdateImage(c.UserContext(), clerkID, c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(image, "Image updated"))
}

func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	image, err := h.imageService.DeleteImage(c.UserContext(), clerkID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(image, "Image deleted"))
}
