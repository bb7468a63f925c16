package backend

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jo-hoe/pixscribe/internal/backend/upstream"
	"github.com/jo-hoe/pixscribe/internal/client"
	"github.com/jo-hoe/pixscribe/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	GenerateImagePath = "/api/generate-image"
	CreationsPath     = "/api/creations"
	ProbePath         = "/probe"

	mimeJPEG = "image/jpeg"
)

type APIService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type SaveCreationRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
		config:      config,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET(ProbePath, func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST(GenerateImagePath, s.generateImageHandler)

	e.GET(CreationsPath, s.listCreationsHandler)
	e.POST(CreationsPath, s.saveCreationHandler)
	e.DELETE(CreationsPath, s.clearCreationsHandler)
	e.GET(CreationsPath+"/feed", s.creationsFeedHandler)
	e.GET(CreationsPath+"/:id/image", s.creationImageHandler)
	e.DELETE(CreationsPath+"/:id", s.deleteCreationHandler)
}

// generateImageHandler forwards the prompt upstream and streams the image
// back unchanged. Upstream failures keep their status code.
func (s *APIService) generateImageHandler(ctx echo.Context) error {
	var request GenerateImageRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be JSON")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	slog.Info("generating image", "prompt", request.Prompt, "upstream", s.config.Upstream.BaseURL)
	image, err := s.coreService.Generator().Generate(ctx.Request().Context(), upstream.Request{
		Prompt: request.Prompt,
	})
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			slog.Error("upstream returned an error", "status", statusErr.StatusCode, "body", statusErr.Body)
			return ctx.JSON(statusErr.StatusCode, ErrorResponse{
				Error:  "Failed to generate image",
				Status: statusErr.StatusCode,
			})
		}
		slog.Error("upstream request failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	defer func() {
		if cerr := image.Body.Close(); cerr != nil {
			slog.Error("failed to close upstream body", "error", cerr)
		}
	}()

	if image.Size >= 0 {
		ctx.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(image.Size, 10))
	}
	return ctx.Stream(http.StatusOK, mimeJPEG, image.Body)
}

func (s *APIService) listCreationsHandler(ctx echo.Context) error {
	s.setNoCache(ctx)
	return ctx.JSON(http.StatusOK, s.coreService.Gallery().List(ctx.Request().Context()))
}

func (s *APIService) saveCreationHandler(ctx echo.Context) error {
	var request SaveCreationRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be JSON")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}
	if !strings.HasPrefix(request.ImageURL, "data:") {
		return echo.NewHTTPError(http.StatusBadRequest, "imageUrl must be a data URI")
	}

	creation, err := s.coreService.Gallery().Save(ctx.Request().Context(), request.Prompt, request.ImageURL)
	if err != nil {
		return ctx.JSON(http.StatusInsufficientStorage, ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusCreated, creation)
}

func (s *APIService) deleteCreationHandler(ctx echo.Context) error {
	if err := s.coreService.Gallery().Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) clearCreationsHandler(ctx echo.Context) error {
	if err := s.coreService.Gallery().ClearAll(ctx.Request().Context()); err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) creationImageHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	creation, ok := s.coreService.Gallery().Get(ctx.Request().Context(), id)
	if !ok {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: "creation not found"})
	}
	data, mimeType, err := client.DecodeDurableEncoding(creation.ImageURL)
	if err != nil {
		slog.Warn("stored image is not decodable", "id", id, "error", err)
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "stored image is not decodable"})
	}
	return ctx.Blob(http.StatusOK, mimeType, data)
}

func (s *APIService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set(echo.HeaderCacheControl, "no-store")
}
