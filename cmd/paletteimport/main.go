// Command paletteimport loads palette files into the SQLite palette store
// read by the palette server at start-up.
//
// Usage:
//
//	paletteimport -db data/palettes.sqlite palettes/lab.json palettes/extra/
//	paletteimport -db data/palettes.sqlite -list
//	paletteimport -db data/palettes.sqlite -delete lab
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/atlasmap-sc/colorscale/internal/palettestore"
	"github.com/atlasmap-sc/colorscale/pkg/colormap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "Usage: paletteimport [-db path] <file.json|file.json.zst|dir>...")
		} else {
			log.Print(err)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("no palette files given")

func run(args []string) error {
	fs := flag.NewFlagSet("paletteimport", flag.ContinueOnError)
	dbPath := fs.String("db", "./data/palettes.sqlite", "Path to the palette store")
	list := fs.Bool("list", false, "List stored palettes and exit")
	del := fs.String("delete", "", "Delete the named palette and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Read and check every input before the store is touched.
	var batches []batch
	if !*list && *del == "" {
		if fs.NArg() == 0 {
			return errUsage
		}
		for _, arg := range fs.Args() {
			scales, err := readPalettes(arg)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", arg, err)
			}
			batches = append(batches, batch{source: arg, scales: scales})
		}
	}

	store, err := palettestore.NewStore(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open palette store: %w", err)
	}
	defer store.Close()

	switch {
	case *list:
		palettes, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list palettes: %w", err)
		}
		for _, p := range palettes {
			fmt.Printf("%s\t%d\t%s\n", p.Name, len(p.Colors), p.Source)
		}
		return nil

	case *del != "":
		ok, err := store.Delete(*del)
		if err != nil {
			return fmt.Errorf("failed to delete %q: %w", *del, err)
		}
		if !ok {
			return fmt.Errorf("palette %q not found", *del)
		}
		log.Printf("Deleted %s", *del)
		return nil
	}

	n := 0
	for _, b := range batches {
		names := make([]string, 0, len(b.scales))
		for name := range b.scales {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := store.Put(name, b.scales[name], b.source); err != nil {
				return fmt.Errorf("failed to store %q: %w", name, err)
			}
			log.Printf("Imported %s (%d colors) from %s", name, len(b.scales[name]), b.source)
			n++
		}
	}
	log.Printf("Imported %d palette(s) into %s", n, *dbPath)
	return nil
}

type batch struct {
	source string
	scales map[string]colormap.ColorScale
}

func readPalettes(path string) (map[string]colormap.ColorScale, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		scales, err := colormap.ReadScaleDir(path)
		if err != nil {
			return nil, err
		}
		return validate(scales)
	}

	name, ok := colormap.ScaleName(path)
	if !ok {
		return nil, fmt.Errorf("unsupported palette file %s (want .json or .json.zst)", filepath.Base(path))
	}
	scale, err := colormap.ReadScaleFile(path)
	if err != nil {
		return nil, err
	}
	return validate(map[string]colormap.ColorScale{name: scale})
}

// validate rejects palettes the server could sample but not draw.
func validate(scales map[string]colormap.ColorScale) (map[string]colormap.ColorScale, error) {
	for name, scale := range scales {
		if err := colormap.ValidateHex(scale); err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
	}
	return scales, nil
}
