package backend

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
	"github.com/jo-hoe/pixscribe/internal/client"
	"github.com/jo-hoe/pixscribe/internal/gallery"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

const feedTitleLength = 80

func (s *APIService) creationsFeedHandler(ctx echo.Context) error {
	base := ctx.Scheme() + "://" + ctx.Request().Host
	feed := buildFeed(base, s.coreService.Gallery().List(ctx.Request().Context()))

	atom, err := feed.ToAtom()
	if err != nil {
		slog.Error("failed to render creations feed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to render feed"})
	}
	return ctx.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}

func buildFeed(base string, creations []gallery.Creation) *feeds.Feed {
	updated := time.Unix(0, 0).UTC()
	if len(creations) > 0 {
		updated = creations[0].Timestamp
	}
	return &feeds.Feed{
		Title:       "PixScribe creations",
		Link:        &feeds.Link{Href: base + CreationsPath},
		Description: "Images saved to the PixScribe gallery",
		Updated:     updated,
		Items: lo.Map(creations, func(c gallery.Creation, _ int) *feeds.Item {
			imageURL := base + CreationsPath + "/" + c.ID + "/image"
			return &feeds.Item{
				Id:          c.ID,
				Title:       truncate(c.Prompt, feedTitleLength),
				Link:        &feeds.Link{Href: imageURL},
				Description: c.Prompt,
				Created:     c.Timestamp,
				Enclosure:   enclosure(imageURL, c.ImageURL),
			}
		}),
	}
}

// enclosure describes the stored image, or returns nil when it cannot be
// decoded.
func enclosure(url, durable string) *feeds.Enclosure {
	data, mimeType, err := client.DecodeDurableEncoding(durable)
	if err != nil {
		slog.Warn("omitting enclosure for undecodable image", "url", url, "error", err)
		return nil
	}
	return &feeds.Enclosure{Url: url, Type: mimeType, Length: strconv.Itoa(len(data))}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
