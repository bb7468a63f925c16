package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jo-hoe/pixscribe/internal/backend/database"
	"github.com/jo-hoe/pixscribe/internal/client"
	"github.com/jo-hoe/pixscribe/internal/gallery"
	"github.com/jo-hoe/pixscribe/internal/studio"
)

const usage = `usage: pixscribe <command> [arguments]

commands:
  generate [-save] [-out file] <prompt>   generate an image
  list                                   list saved creations
  delete <id>                            delete a saved creation
  clear                                  delete all saved creations
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	config, err := client.LoadConfig()
	if err != nil {
		return err
	}
	storeConfig := loadStoreConfig()

	db, err := database.NewDatabase(storeConfig.Type, storeConfig.ConnectionString)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	session := studio.NewSession(client.New(config), gallery.NewStore(db, storeConfig.Key))
	defer session.Close()

	switch args[0] {
	case "generate":
		return generate(ctx, session, args[1:], out)
	case "list":
		printCreations(out, session.Creations(ctx))
		return nil
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: pixscribe delete <id>")
		}
		if err := session.DeleteCreation(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", args[1])
		return nil
	case "clear":
		if err := session.ClearCreations(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "all creations deleted")
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func generate(ctx context.Context, session *studio.Session, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("generate", flag.ContinueOnError)
	save := flags.Bool("save", false, "save the image to the gallery")
	output := flags.String("out", "", "download the image to this file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	prompt := strings.Join(flags.Args(), " ")

	handle, err := session.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "generated %s (%s)\n", handle.URL, formatSize(handle.Size))

	if *output != "" {
		path, err := session.Download(*output)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "downloaded to %s\n", path)
	}

	if *save {
		creation, err := session.SaveCurrent(ctx)
		if err != nil {
			// the generated image is still available; only the save failed
			return fmt.Errorf("failed to save. Please try again: %w", err)
		}
		fmt.Fprintf(out, "saved to gallery as %s\n", creation.ID)
	}
	return nil
}
