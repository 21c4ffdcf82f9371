package subsys

import (
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Entry is one row of the feature table.
type Entry struct {
	Feature      string
	Enabled      bool
	Configurator Configurator
}

// Configure runs the entry's configurator with its enablement.
func (e Entry) Configure(p *toolchain.Profile) (*unit.Set, error) {
	return e.Configurator.Configure(p, e.Enabled)
}

// Table returns the subsystems in build order. The core runtime comes
// last: it includes the optional subsystems' headers and defines their
// opt-in macros. Bidi shares the text feature with text shaping. A nil or
// source-less binding is listed but disabled.
func Table(features FeatureSet, paths Paths, binding *Binding) []Entry {
	b := Binding{}
	if binding != nil {
		b = *binding
	}
	b.Paths = paths
	return []Entry{
		{Feature: "binding", Enabled: len(b.Sources) > 0, Configurator: &b},
		{Feature: "layout", Enabled: features.Layout, Configurator: &Layout{Paths: paths}},
		{Feature: "text", Enabled: features.Text, Configurator: &TextShaping{Paths: paths}},
		{Feature: "text", Enabled: features.Text, Configurator: &Bidi{Paths: paths}},
		{Feature: "core", Enabled: true, Configurator: &Core{Paths: paths, Features: features}},
	}
}

// Plan configures every enabled entry of table, in order.
func Plan(p *toolchain.Profile, table []Entry) ([]*unit.Set, error) {
	var sets []*unit.Set
	for _, e := range table {
		if !e.Enabled {
			continue
		}
		s, err := e.Configure(p)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}
