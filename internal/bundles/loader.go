// Package bundles loads game content from bundle directories and registers
// it on the game's factories.
//
// A bundle is laid out as
//
//	<root>/<bundle>/attributes.yml
//	<root>/<bundle>/effects.yml
//	<root>/<bundle>/effects/<effect id>.lua
//	<root>/<bundle>/behaviors/<kind>/<behavior>.lua
//	<root>/<bundle>/areas/<area>/manifest.yml
//	<root>/<bundle>/areas/<area>/{rooms,npcs,items}.yml
//	<root>/<bundle>/areas/<area>/scripts/<kind>/<script>.lua
//
// Ids inside an area may be written bare; they are qualified with the area
// name on load.
package bundles

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-mud/internal/attributes"
	"github.com/KirkDiggler/rpg-mud/internal/behaviors"
	"github.com/KirkDiggler/rpg-mud/internal/datasource"
	"github.com/KirkDiggler/rpg-mud/internal/effects"
	"github.com/KirkDiggler/rpg-mud/internal/entities"
	"github.com/KirkDiggler/rpg-mud/internal/errors"
	"github.com/KirkDiggler/rpg-mud/internal/factory"
	"github.com/KirkDiggler/rpg-mud/internal/scripting"
)

const scriptExt = ".lua"

// Registry is where loaded definitions are registered.
type Registry struct {
	Attributes *attributes.Factory
	Effects    *effects.Factory
	Items      *factory.ItemFactory
	Mobs       *factory.MobFactory
	Rooms      *factory.RoomFactory
	Areas      *factory.AreaFactory
	// Behaviors are keyed by entity kind.
	Behaviors map[string]*behaviors.Manager
}

// Validate checks every factory is set.
func (r *Registry) Validate() error {
	vb := errors.NewValidationBuilder()
	if r.Attributes == nil {
		vb.RequiredField("Attributes")
	}
	if r.Effects == nil {
		vb.RequiredField("Effects")
	}
	if r.Items == nil {
		vb.RequiredField("Items")
	}
	if r.Mobs == nil {
		vb.RequiredField("Mobs")
	}
	if r.Rooms == nil {
		vb.RequiredField("Rooms")
	}
	if r.Areas == nil {
		vb.RequiredField("Areas")
	}
	return vb.Build()
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Root     string
	Bundles  []string
	Registry *Registry
}

// Validate checks the config.
func (c *LoaderConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Root", c.Root, vb)
	if c.Registry == nil {
		vb.RequiredField("Registry")
	} else if err := c.Registry.Validate(); err != nil {
		vb.Field("Registry", errors.GetMessage(err))
	}
	return vb.Build()
}

// Result summarizes what a Load registered.
type Result struct {
	// Areas are area names in load order.
	Areas      []string
	Attributes int
	Effects    int
	Behaviors  int
	Items      int
	Npcs       int
	Rooms      int
}

// Loader reads bundles from disk.
type Loader struct {
	root    string
	bundles []string
	reg     *Registry
}

// NewLoader creates a loader.
func NewLoader(cfg *LoaderConfig) (*Loader, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bundle loader config")
	}
	return &Loader{
		root:    cfg.Root,
		bundles: append([]string(nil), cfg.Bundles...),
		reg:     cfg.Registry,
	}, nil
}

// Load reads every configured bundle in order, then validates the attribute
// formula graph. Any returned error aborts startup.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, bundle := range l.bundles {
		if err := l.loadBundle(ctx, bundle, res); err != nil {
			return nil, err
		}
	}

	if err := l.reg.Attributes.ValidateAttributes(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "bundles loaded",
		"bundles", l.bundles,
		"areas", len(res.Areas),
		"attributes", res.Attributes,
		"effects", res.Effects,
		"rooms", res.Rooms,
		"npcs", res.Npcs,
		"items", res.Items)
	return res, nil
}

func (l *Loader) loadBundle(ctx context.Context, bundle string, res *Result) error {
	dir := filepath.Join(l.root, bundle)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.NotFoundf("bundle %s not found in %s", bundle, l.root).
			WithMeta("bundle", bundle).
			WithMeta("file", dir)
	}

	slog.DebugContext(ctx, "loading bundle", "bundle", bundle, "path", dir)

	steps := []func(context.Context, string, *Result) error{
		l.loadAttributes,
		l.loadEffects,
		l.loadBehaviors,
		l.loadAreas,
	}
	for _, step := range steps {
		if err := step(ctx, bundle, res); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadAttributes(ctx context.Context, bundle string, res *Result) error {
	path := filepath.Join(l.root, bundle, "attributes.yml")
	records, err := readList(ctx, path, func(r attributeRecord) string { return r.Name })
	if err != nil {
		return wrapFile(err, bundle, "", path)
	}

	for _, rec := range records {
		if rec.Name == "" {
			slog.WarnContext(ctx, "skipping attribute without a name", "bundle", bundle, "file", path)
			continue
		}

		var formula *attributes.Formula
		if rec.Formula != nil {
			formula, err = scripting.NewFormula(rec.Name, rec.Formula.Requires, rec.Formula.Fn)
			if err != nil {
				return wrapFile(err, bundle, "", path).WithMeta("attribute", rec.Name)
			}
		}
		l.reg.Attributes.Add(rec.Name, rec.Base, formula, rec.Metadata)
		res.Attributes++
	}
	return nil
}

func (l *Loader) loadEffects(ctx context.Context, bundle string, res *Result) error {
	path := filepath.Join(l.root, bundle, "effects.yml")
	records, err := readList(ctx, path, func(r effectRecord) string { return r.ID })
	if err != nil {
		return wrapFile(err, bundle, "", path)
	}

	for _, rec := range records {
		if rec.ID == "" {
			slog.WarnContext(ctx, "skipping effect without an id", "bundle", bundle, "file", path)
			continue
		}

		def := &effects.Definition{
			ID:     rec.ID,
			Flags:  rec.Flags,
			Config: rec.Config,
			State:  rec.State,
		}

		scriptPath := filepath.Join(l.root, bundle, "effects", rec.ID+scriptExt)
		script, err := compileFile(bundle+"/effects/"+rec.ID, scriptPath)
		if err != nil && !errors.IsNotFound(err) {
			return wrapFile(err, bundle, "", scriptPath).WithMeta("entity", rec.ID)
		}
		if script != nil {
			def.Modifiers, def.Handlers = scripting.EffectHooks(script)
		}

		if err := l.reg.Effects.Add(def); err != nil {
			return wrapFile(err, bundle, "", path).WithMeta("entity", rec.ID)
		}
		res.Effects++
	}
	return nil
}

func (l *Loader) loadBehaviors(ctx context.Context, bundle string, res *Result) error {
	root := filepath.Join(l.root, bundle, "behaviors")
	kinds, err := subdirs(root)
	if err != nil {
		return wrapFile(err, bundle, "", root)
	}

	for _, kind := range kinds {
		manager := l.reg.Behaviors[kind]
		if manager == nil {
			slog.WarnContext(ctx, "no behavior registry for entity kind",
				"bundle", bundle,
				"area", "unknown",
				"entity", kind)
			continue
		}

		dir := filepath.Join(root, kind)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return wrapFile(errors.Wrap(err, "failed to read behaviors"), bundle, "", dir)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != scriptExt {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), scriptExt)
			path := filepath.Join(dir, entry.Name())
			script, err := compileFile(bundle+"/behaviors/"+kind+"/"+name, path)
			if err != nil {
				return wrapFile(err, bundle, "", path).WithMeta("entity", name)
			}
			manager.Add(name, scripting.EntityListener(script))
			res.Behaviors++
		}
	}
	return nil
}

func (l *Loader) loadAreas(ctx context.Context, bundle string, res *Result) error {
	root := filepath.Join(l.root, bundle, "areas")
	areas, err := subdirs(root)
	if err != nil {
		return wrapFile(err, bundle, "", root)
	}
	for _, area := range areas {
		if err := l.loadArea(ctx, bundle, area, res); err != nil {
			return err
		}
		res.Areas = append(res.Areas, area)
	}
	return nil
}

func (l *Loader) loadArea(ctx context.Context, bundle, area string, res *Result) error {
	dir := filepath.Join(l.root, bundle, "areas", area)

	manifestPath := filepath.Join(dir, "manifest.yml")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFoundf("area %s has no manifest", area).
				WithMeta("bundle", bundle).
				WithMeta("area", area).
				WithMeta("file", manifestPath)
		}
		return wrapFile(errors.Wrap(err, "failed to read area manifest"), bundle, area, manifestPath)
	}
	manifest := &entities.AreaManifest{}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return wrapFile(errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid area manifest"),
			bundle, area, manifestPath)
	}

	items, err := loadEntities(ctx, l, bundle, area, entitySet[entities.ItemDefinition]{
		file:    "items.yml",
		kind:    entities.KindItem,
		sink:    l.reg.Items,
		id:      func(d *entities.ItemDefinition) string { return d.ID },
		script:  func(d *entities.ItemDefinition) string { return d.Script },
		prepare: qualifyItem,
	})
	if err != nil {
		return err
	}
	npcs, err := loadEntities(ctx, l, bundle, area, entitySet[entities.NpcDefinition]{
		file:    "npcs.yml",
		kind:    entities.KindNpc,
		sink:    l.reg.Mobs,
		id:      func(d *entities.NpcDefinition) string { return d.ID },
		script:  func(d *entities.NpcDefinition) string { return d.Script },
		prepare: qualifyNpc,
	})
	if err != nil {
		return err
	}
	rooms, err := loadEntities(ctx, l, bundle, area, entitySet[entities.RoomDefinition]{
		file:    "rooms.yml",
		kind:    entities.KindRoom,
		sink:    l.reg.Rooms,
		id:      func(d *entities.RoomDefinition) string { return d.ID },
		script:  func(d *entities.RoomDefinition) string { return d.Script },
		prepare: qualifyRoom,
	})
	if err != nil {
		return err
	}

	l.reg.Areas.SetDefinition(area, manifest)
	l.reg.Areas.SetRooms(area, rooms)
	if manifest.Script != "" {
		if listener := l.entityScript(ctx, bundle, area, entities.KindArea, area, manifest.Script); listener != nil {
			l.reg.Areas.SetEntityScript(area, listener)
		}
	}

	res.Items += len(items)
	res.Npcs += len(npcs)
	res.Rooms += len(rooms)

	slog.DebugContext(ctx, "loaded area",
		"bundle", bundle,
		"area", area,
		"rooms", len(rooms),
		"npcs", len(npcs),
		"items", len(items))
	return nil
}

// definitionSink is the part of a factory entity definitions are stored on.
type definitionSink[D any] interface {
	SetDefinition(ref string, def *D)
	SetEntityScript(ref string, listener behaviors.Listener)
}

type entitySet[D any] struct {
	file    string
	kind    string
	sink    definitionSink[D]
	id      func(*D) string
	script  func(*D) string
	prepare func(area string, def *D)
}

// loadEntities registers the definitions of one area file and returns their
// references in file order. A missing file is an empty list.
func loadEntities[D any](ctx context.Context, l *Loader, bundle, area string, set entitySet[D]) ([]string, error) {
	path := filepath.Join(l.root, bundle, "areas", area, set.file)
	records, err := readList(ctx, path, func(d D) string { return set.id(&d) })
	if err != nil {
		return nil, wrapFile(err, bundle, area, path)
	}

	refs := make([]string, 0, len(records))
	for i := range records {
		def := &records[i]
		id := set.id(def)
		if id == "" || strings.Contains(id, ":") {
			slog.WarnContext(ctx, "skipping invalid entity definition",
				"bundle", bundle,
				"area", area,
				"entity", id,
				"type", set.kind,
				"file", path)
			continue
		}

		set.prepare(area, def)
		ref := entities.Reference(area, id)
		set.sink.SetDefinition(ref, def)
		if name := set.script(def); name != "" {
			if listener := l.entityScript(ctx, bundle, area, set.kind, ref, name); listener != nil {
				set.sink.SetEntityScript(ref, listener)
			}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// entityScript compiles an entity script. Missing or broken scripts are
// logged and skipped so one bad script does not take the area down.
func (l *Loader) entityScript(ctx context.Context, bundle, area, kind, ref, name string) behaviors.Listener {
	path := filepath.Join(l.root, bundle, "areas", area, "scripts", kind, name+scriptExt)
	script, err := compileFile(bundle+"/"+area+"/"+kind+"/"+name, path)
	if err != nil {
		slog.WarnContext(ctx, "failed to load entity script",
			"bundle", bundle,
			"area", area,
			"entity", ref,
			"script", name,
			"file", path,
			"error", err.Error())
		return nil
	}
	return scripting.EntityListener(script)
}

// readList reads a YAML list file. A missing file is an empty list.
func readList[T any](ctx context.Context, path string, id func(T) string) ([]T, error) {
	file, err := datasource.NewYAMLFile(&datasource.YAMLFileConfig[T]{Path: path, ID: id})
	if err != nil {
		return nil, err
	}
	ok, err := file.HasData(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return file.List(ctx)
}

// compileFile compiles a Lua file. Returns errors.NotFound when it is missing.
func compileFile(name, path string) (*scripting.Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("script %s not found", name).WithMeta("file", path)
		}
		return nil, errors.Wrapf(err, "failed to read script %s", name)
	}
	return scripting.Compile(name, string(src))
}

// subdirs lists directory names under dir, sorted. A missing dir has none.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", dir)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func wrapFile(err error, bundle, area, file string) *errors.Error {
	wrapped := errors.Wrapf(err, "failed to load bundle %s", bundle).
		WithMeta("bundle", bundle).
		WithMeta("file", file)
	if area != "" {
		wrapped = wrapped.WithMeta("area", area)
	}
	return wrapped
}
