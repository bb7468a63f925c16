package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jo-hoe/pixscribe/internal/backend/database"
	"github.com/jo-hoe/pixscribe/internal/gallery"
	"github.com/samber/lo"
)

const (
	storeTypeEnv       = "PIXSCRIBE_STORE_TYPE"
	storeConnectionEnv = "PIXSCRIBE_STORE_CONNECTION"
	storeKeyEnv        = "PIXSCRIBE_STORE_KEY"

	promptColumnWidth = 60
)

type storeConfig struct {
	Type             string
	ConnectionString string
	Key              string
}

// loadStoreConfig reads the gallery location. By default creations are kept
// in a JSON file in the working directory.
func loadStoreConfig() storeConfig {
	config := storeConfig{
		Type:             lo.Ternary(os.Getenv(storeTypeEnv) != "", os.Getenv(storeTypeEnv), database.TypeFile),
		ConnectionString: os.Getenv(storeConnectionEnv),
		Key:              lo.Ternary(os.Getenv(storeKeyEnv) != "", os.Getenv(storeKeyEnv), gallery.DefaultKey),
	}
	if config.ConnectionString == "" && config.Type == database.TypeFile {
		config.ConnectionString = "pixscribe_creations.json"
	}
	return config
}

func printCreations(out io.Writer, creations []gallery.Creation) {
	if len(creations) == 0 {
		fmt.Fprintln(out, "no creations saved")
		return
	}
	fmt.Fprintf(out, "%d %s saved\n", len(creations), lo.Ternary(len(creations) == 1, "creation", "creations"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSAVED\tSIZE\tPROMPT")
	now := time.Now()
	for _, c := range creations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.ID,
			humanize.RelTime(c.Timestamp, now, "ago", "from now"),
			formatSize(len(c.ImageURL)),
			shorten(c.Prompt, promptColumnWidth),
		)
	}
	_ = w.Flush()
}

func formatSize(n int) string {
	return humanize.Bytes(uint64(n))
}

func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
