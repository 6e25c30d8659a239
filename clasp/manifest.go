package clasp

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// manifestFile is the YAML shape for declarative data classes: members and
// visibilities only, no behavior. Member order in the file is declaration
// order, which fixes both the visibility layout and teardown order.
type manifestFile struct {
	Classes []manifestClass `yaml:"classes"`
}

type manifestClass struct {
	Name    string           `yaml:"name"`
	Extends string           `yaml:"extends"`
	Members []manifestMember `yaml:"members"`
}

type manifestMember struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Visibility string `yaml:"visibility"`
}

// LoadManifest reads YAML class manifests and registers the classes on the
// engine. Classes may extend classes appearing earlier in the same manifest
// or already registered on the engine.
func (e *Engine) LoadManifest(data []byte) ([]*ClassDef, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing class manifest: %w", err)
	}

	loaded := make(map[string]*ClassDef)
	defs := make([]*ClassDef, 0, len(file.Classes))

	for _, mc := range file.Classes {
		if mc.Name == "" {
			return nil, fmt.Errorf("class manifest entry is missing a name")
		}
		if _, dup := loaded[mc.Name]; dup {
			return nil, fmt.Errorf("class manifest declares %s twice", mc.Name)
		}

		builder := NewClass(mc.Name)
		if mc.Extends != "" {
			parent, ok := loaded[mc.Extends]
			if !ok {
				parent, ok = e.Class(mc.Extends)
			}
			if !ok {
				return nil, fmt.Errorf("class %s extends unknown class %s", mc.Name, mc.Extends)
			}
			builder.Extends(parent)
		}

		current := defaultVisibility
		for _, mm := range mc.Members {
			if mm.Name == "" {
				return nil, fmt.Errorf("class %s has a member with no name", mc.Name)
			}
			vis, ok := ParseVisibility(mm.Visibility)
			if !ok {
				return nil, fmt.Errorf("class %s member %s: unknown visibility %q", mc.Name, mm.Name, mm.Visibility)
			}
			if vis != current {
				switch vis {
				case VisPublic:
					builder.Public()
				case VisProtected:
					builder.Protected()
				case VisPrivate:
					builder.Private()
				}
				current = vis
			}
			builder.Member(mm.Name, mm.Type)
		}

		def := builder.Build()
		loaded[mc.Name] = def
		defs = append(defs, def)
		e.RegisterClass(def)
	}

	return defs, nil
}
