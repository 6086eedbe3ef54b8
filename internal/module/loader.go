package module

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// File names inside a module directory.
const (
	RulesFile  = "rules.yaml"
	SizesFile  = "sizes.yaml"
	PropsFile  = "props.yaml"
	ActorsFile = "actors.yaml"
	AreasDir   = "areas"
)

type sizeEntry struct {
	ID     string `yaml:"id"`
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
}

// LoadCatalog reads a module directory. Every file is read and parsed
// concurrently; registration then happens in dependency order so the
// result does not depend on scheduling.
func LoadCatalog(dir string) (*Catalog, error) {
	areaFiles, err := filepath.Glob(filepath.Join(dir, AreasDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing areas in %s: %w", dir, err)
	}
	sort.Strings(areaFiles)

	var (
		rules  Rules
		sizes  []sizeEntry
		props  []PropTemplate
		actors []ActorTemplate
		areas  = make([]*Definition, len(areaFiles))
	)

	var g errgroup.Group
	g.Go(func() error { return readOptionalYAML(filepath.Join(dir, RulesFile), &rules) })
	g.Go(func() error { return readYAML(filepath.Join(dir, SizesFile), &sizes) })
	g.Go(func() error { return readYAML(filepath.Join(dir, PropsFile), &props) })
	g.Go(func() error { return readYAML(filepath.Join(dir, ActorsFile), &actors) })
	for i, path := range areaFiles {
		g.Go(func() error {
			def := &Definition{}
			if err := readYAML(path, def); err != nil {
				return err
			}
			if err := def.Prepare(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			areas[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := NewCatalog()
	c.SetRules(rules)
	for _, s := range sizes {
		if _, err := c.AddSize(s.ID, s.Width, s.Height); err != nil {
			return nil, err
		}
	}
	for _, p := range props {
		if _, err := c.AddProp(p); err != nil {
			return nil, err
		}
	}
	for _, a := range actors {
		if _, err := c.AddActor(a); err != nil {
			return nil, err
		}
	}
	for _, d := range areas {
		if err := c.AddArea(d); err != nil {
			return nil, err
		}
	}
	if err := c.TransitionTargetsValid(); err != nil {
		return nil, err
	}
	if c.rules.LootDropProp != "" {
		if _, err := c.Prop(c.rules.LootDropProp); err != nil {
			return nil, fmt.Errorf("rules loot_drop_prop: %w", err)
		}
	}

	slog.Info("module catalog loaded",
		"dir", dir,
		"sizes", len(c.sizes),
		"props", len(c.props),
		"actors", len(c.actors),
		"areas", len(c.areas))
	return c, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func readOptionalYAML(path string, out any) error {
	err := readYAML(path, out)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
