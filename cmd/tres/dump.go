package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/signadot/tres/encode"
	"github.com/signadot/tres/resource"
	"github.com/signadot/tres/variant"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.Dump, cc, args, 1)
	if err != nil {
		return err
	}
	paths, err := cfg.resPaths(args)
	if err != nil {
		return err
	}
	for i, p := range paths {
		if i > 0 {
			io.WriteString(cc.Out, "---\n")
		}
		if err := dumpFile(cfg.store, cc.Out, p); err != nil {
			return err
		}
	}
	return nil
}

func dumpFile(s *resource.Store, w io.Writer, path string) error {
	root, err := s.Load(context.Background(), path,
		resource.WithCacheMode(resource.CacheIgnore), resource.DependencyPlaceholders())
	if err != nil {
		return err
	}
	defer root.Release()
	p, err := resource.NewPlan(path, root, resource.SaveFlags{})
	if err != nil {
		return err
	}
	doc, err := dumpDoc(p)
	if err != nil {
		return fmt.Errorf("dumping %s: %w", path, err)
	}
	d, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func dumpDoc(p *resource.Plan) (yaml.MapSlice, error) {
	doc := yaml.MapSlice{
		{Key: "path", Value: p.Path},
		{Key: "type", Value: p.Root.Class()},
	}
	if uid := p.Root.UID(); uid != "" {
		doc = append(doc, yaml.MapItem{Key: "uid", Value: uid})
	}
	if exts := p.Externals(); len(exts) > 0 {
		var items []yaml.MapSlice
		for _, e := range exts {
			item := yaml.MapSlice{{Key: "id", Value: e.ID}, {Key: "type", Value: e.Type}, {Key: "path", Value: e.Path}}
			if e.UID != "" {
				item = append(item, yaml.MapItem{Key: "uid", Value: e.UID})
			}
			items = append(items, item)
		}
		doc = append(doc, yaml.MapItem{Key: "external", Value: items})
	}
	if len(p.Embedded) > 0 {
		var items []yaml.MapSlice
		for _, e := range p.Embedded {
			props, err := dumpProps(p, e.Props)
			if err != nil {
				return nil, err
			}
			items = append(items, yaml.MapSlice{
				{Key: "id", Value: e.ID},
				{Key: "type", Value: e.Object.Class()},
				{Key: "properties", Value: props},
			})
		}
		doc = append(doc, yaml.MapItem{Key: "embedded", Value: items})
	}
	if p.Scene == nil {
		props, err := dumpProps(p, p.RootProps)
		if err != nil {
			return nil, err
		}
		return append(doc, yaml.MapItem{Key: "properties", Value: props}), nil
	}
	var nodes []yaml.MapSlice
	for _, n := range p.Scene.Nodes {
		item := yaml.MapSlice{{Key: "path", Value: n.Path()}}
		if n.Type != "" {
			item = append(item, yaml.MapItem{Key: "type", Value: n.Type})
		}
		if n.Instance != nil {
			s, err := encode.ValueString(variant.FromObject(n.Instance), p)
			if err != nil {
				return nil, err
			}
			item = append(item, yaml.MapItem{Key: "instance", Value: s})
		}
		if len(n.Groups) > 0 {
			item = append(item, yaml.MapItem{Key: "groups", Value: n.Groups})
		}
		if props := p.NodeProps(n); len(props) > 0 {
			dp, err := dumpProps(p, props)
			if err != nil {
				return nil, err
			}
			item = append(item, yaml.MapItem{Key: "properties", Value: dp})
		}
		nodes = append(nodes, item)
	}
	doc = append(doc, yaml.MapItem{Key: "nodes", Value: nodes})
	if len(p.Scene.Connections) > 0 {
		var conns []string
		for _, c := range p.Scene.Connections {
			conns = append(conns, fmt.Sprintf("%s.%s -> %s.%s", c.From, c.Signal, c.To, c.Method))
		}
		doc = append(doc, yaml.MapItem{Key: "connections", Value: conns})
	}
	return doc, nil
}

func dumpProps(p *resource.Plan, props []variant.Property) (yaml.MapSlice, error) {
	res := yaml.MapSlice{}
	for i := range props {
		v, err := dumpValue(p, props[i].Value)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", props[i].Name, err)
		}
		res = append(res, yaml.MapItem{Key: props[i].Name, Value: v})
	}
	return res, nil
}

// dumpValue maps scalars and containers to yaml and everything else to
// its text form.
func dumpValue(p *resource.Plan, v *variant.Value) (any, error) {
	switch v.Type {
	case variant.NilType:
		return nil, nil
	case variant.BoolType:
		return v.Bool, nil
	case variant.IntType:
		return v.Int64, nil
	case variant.FloatType:
		return v.Float64, nil
	case variant.StringType:
		return v.String, nil
	case variant.ArrayType:
		res := make([]any, len(v.Values))
		for i, e := range v.Values {
			d, err := dumpValue(p, e)
			if err != nil {
				return nil, err
			}
			res[i] = d
		}
		return res, nil
	case variant.DictType:
		res := yaml.MapSlice{}
		for i, k := range v.Keys {
			key := k.String
			if k.Type != variant.StringType {
				s, err := encode.ValueString(k, p)
				if err != nil {
					return nil, err
				}
				key = s
			}
			d, err := dumpValue(p, v.Values[i])
			if err != nil {
				return nil, err
			}
			res = append(res, yaml.MapItem{Key: key, Value: d})
		}
		return res, nil
	}
	return encode.ValueString(v, p)
}
