// Package hcl implements the concrete persisted-configuration serializer
// chosen for Component K: one `block "type" "name" { ... }` HCL block per
// block definition, with nested `config`/`input` attribute bodies and
// `link`/`connection` blocks for an input's back-reference and an output's
// forward connection set.
//
// Grounded on burstgridgo's HCL-decoding idiom: internal/schema/schema.go's
// gohcl struct-tag style (`hcl:"...,label"`, `hcl:"...,block"`) is adopted
// over burstgridgo's alternate manual hcl.BodySchema/Content() parsing in
// internal/hcl/translate_model.go, and typed literal conversion follows
// internal/hcl/translate_type.go's cty dispatch (via internal/value's
// FromCty/ToCty, since block attributes here are dynamically named rather
// than fixed struct fields, JustAttributes()+cty.Value literal decoding
// is used instead of one gohcl field per attribute).
package hcl

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/mdsebald/LinkBlocks/internal/config"
	"github.com/zclconf/go-cty/cty"
)

type fileSchema struct {
	Blocks []blockSchema `hcl:"block,block"`
}

type blockSchema struct {
	Type        string       `hcl:"type,label"`
	Name        string       `hcl:"name,label"`
	Description string       `hcl:"description,optional"`
	Config      *rawBody     `hcl:"config,block"`
	Input       *rawBody     `hcl:"input,block"`
	Links       []linkSchema `hcl:"link,block"`
	Conns       []connSchema `hcl:"connection,block"`
}

type rawBody struct {
	Body hcl.Body `hcl:",remain"`
}

type linkSchema struct {
	Input        string `hcl:"input,label"`
	SourceBlock  string `hcl:"source_block"`
	SourceOutput string `hcl:"source_output"`
}

type connSchema struct {
	Output  string   `hcl:"output,label"`
	Targets []string `hcl:"targets"`
}

// Loader reads a sequence of block definitions from one or more HCL files.
type Loader struct{}

// NewLoader returns an HCL Loader.
func NewLoader() *Loader { return &Loader{} }

// Load implements config.Loader.
func (l *Loader) Load(paths ...string) (*config.Model, error) {
	parser := hclparse.NewParser()
	m := &config.Model{}
	for _, path := range paths {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("hcl: parse %s: %w", path, diags)
		}
		var fs fileSchema
		if diags := gohcl.DecodeBody(f.Body, nil, &fs); diags.HasErrors() {
			return nil, fmt.Errorf("hcl: decode %s: %w", path, diags)
		}
		for _, b := range fs.Blocks {
			def, err := blockToDefinition(b)
			if err != nil {
				return nil, fmt.Errorf("hcl: %s: block %q %q: %w", path, b.Type, b.Name, err)
			}
			m.Definitions = append(m.Definitions, def)
		}
	}
	return m, nil
}

func blockToDefinition(b blockSchema) (config.Definition, error) {
	def := config.Definition{Type: b.Type, Name: b.Name, Description: b.Description}

	if b.Config != nil {
		overrides, err := decodeAttrs(b.Config.Body)
		if err != nil {
			return config.Definition{}, err
		}
		def.Configs = overrides
	}

	links := make(map[string]config.LinkRef, len(b.Links))
	for _, l := range b.Links {
		links[l.Input] = config.LinkRef{SourceBlock: l.SourceBlock, SourceOutput: l.SourceOutput}
	}

	if b.Input != nil {
		overrides, err := decodeAttrs(b.Input.Body)
		if err != nil {
			return config.Definition{}, err
		}
		for _, o := range overrides {
			io := config.InputOverride{Name: o.Name, Value: o.Value}
			if l, ok := links[o.Name]; ok {
				io.Link = &l
			}
			def.Inputs = append(def.Inputs, io)
		}
	}
	for name, l := range links {
		found := false
		for _, io := range def.Inputs {
			if io.Name == name {
				found = true
				break
			}
		}
		if !found {
			l := l
			def.Inputs = append(def.Inputs, config.InputOverride{Name: name, Value: cty.NullVal(cty.DynamicPseudoType), Link: &l})
		}
	}

	for _, c := range b.Conns {
		targets := append([]string(nil), c.Targets...)
		sort.Strings(targets)
		def.Outputs = append(def.Outputs, config.OutputOverride{Name: c.Output, Connections: targets})
	}

	sort.Slice(def.Configs, func(i, j int) bool { return def.Configs[i].Name < def.Configs[j].Name })
	sort.Slice(def.Inputs, func(i, j int) bool { return def.Inputs[i].Name < def.Inputs[j].Name })
	sort.Slice(def.Outputs, func(i, j int) bool { return def.Outputs[i].Name < def.Outputs[j].Name })
	return def, nil
}

func decodeAttrs(body hcl.Body) ([]config.AttrOverride, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w", diags)
	}
	out := make([]config.AttrOverride, 0, len(attrs))
	for name, a := range attrs {
		v, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, diags)
		}
		out = append(out, config.AttrOverride{Name: name, Value: v})
	}
	return out, nil
}

// Writer persists a sequence of block definitions to a single HCL file.
type Writer struct{}

// NewWriter returns an HCL Writer.
func NewWriter() *Writer { return &Writer{} }

// Write implements config.Writer.
func (w *Writer) Write(path string, m *config.Model) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for _, d := range m.Definitions {
		blk := root.AppendNewBlock("block", []string{d.Type, d.Name})
		body := blk.Body()
		if d.Description != "" {
			body.SetAttributeValue("description", cty.StringVal(d.Description))
		}

		if len(d.Configs) > 0 {
			cfgBlk := body.AppendNewBlock("config", nil).Body()
			for _, o := range sortedAttrs(d.Configs) {
				cfgBlk.SetAttributeValue(o.Name, o.Value)
			}
		}

		plainInputs := make([]config.InputOverride, 0, len(d.Inputs))
		for _, o := range d.Inputs {
			plainInputs = append(plainInputs, o)
		}
		sort.Slice(plainInputs, func(i, j int) bool { return plainInputs[i].Name < plainInputs[j].Name })
		if len(plainInputs) > 0 {
			inBlk := body.AppendNewBlock("input", nil).Body()
			for _, o := range plainInputs {
				inBlk.SetAttributeValue(o.Name, o.Value)
			}
		}
		for _, o := range plainInputs {
			if o.Link == nil {
				continue
			}
			lblk := body.AppendNewBlock("link", []string{o.Name}).Body()
			lblk.SetAttributeValue("source_block", cty.StringVal(o.Link.SourceBlock))
			lblk.SetAttributeValue("source_output", cty.StringVal(o.Link.SourceOutput))
		}

		outs := make([]config.OutputOverride, 0, len(d.Outputs))
		outs = append(outs, d.Outputs...)
		sort.Slice(outs, func(i, j int) bool { return outs[i].Name < outs[j].Name })
		for _, o := range outs {
			if len(o.Connections) == 0 {
				continue
			}
			targets := make([]cty.Value, len(o.Connections))
			for i, t := range o.Connections {
				targets[i] = cty.StringVal(t)
			}
			cblk := body.AppendNewBlock("connection", []string{o.Name}).Body()
			cblk.SetAttributeValue("targets", cty.ListVal(targets))
		}
	}

	return os.WriteFile(path, f.Bytes(), 0o644)
}

func sortedAttrs(in []config.AttrOverride) []config.AttrOverride {
	out := append([]config.AttrOverride(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
