// Package graph renders the dependency graph of a built template in DOT or
// Mermaid format. Edges come from Ref and Fn::GetAtt intrinsics plus explicit
// DependsOn entries; GetAtt edges render blue in DOT output.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	cdkwebservice "github.com/thunder-so/cdk-webservice"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator renders dependency graphs from a built template.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service.
	ClusterByService bool
}

// Generate renders the template's dependency graph and writes it to w.
func (g *Generator) Generate(tmpl *cdkwebservice.Template, w io.Writer) error {
	graph := g.buildGraph(tmpl)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(tmpl *cdkwebservice.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(tmpl, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// edge is one dependency: from depends on to.
type edge struct {
	from, to string
	getAtt   bool
}

func (g *Generator) buildGraph(tmpl *cdkwebservice.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByService {
		g.addClusteredNodes(graph, tmpl)
	} else {
		g.addNodes(graph, tmpl)
	}

	for _, e := range edges(tmpl) {
		de := graph.Edge(graph.Node(e.from), graph.Node(e.to))
		if e.getAtt {
			de.Attr("color", "blue")
		}
	}

	return graph
}

func (g *Generator) addNodes(graph *dot.Graph, tmpl *cdkwebservice.Template) {
	for _, name := range sortedNames(tmpl) {
		graph.Node(name).Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
	}
}

// addClusteredNodes groups nodes by AWS service. Services with a single
// resource stay at the top level.
func (g *Generator) addClusteredNodes(graph *dot.Graph, tmpl *cdkwebservice.Template) {
	byService := make(map[string][]string)
	for _, name := range sortedNames(tmpl) {
		service := serviceOf(tmpl.Resources[name].Type)
		byService[service] = append(byService[service], name)
	}

	services := make([]string, 0, len(byService))
	for service := range byService {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		names := byService[service]
		if len(names) > 1 {
			cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
			cluster.Attr("label", service)
			cluster.Attr("style", "rounded")
			cluster.Attr("bgcolor", "lightyellow")
			for _, name := range names {
				cluster.Node(name).Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
			}
			continue
		}
		for _, name := range names {
			graph.Node(name).Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
		}
	}
}

// edges extracts every dependency edge from the template, sorted for stable
// output.
func edges(tmpl *cdkwebservice.Template) []edge {
	seen := make(map[string]bool)
	var out []edge

	add := func(e edge) {
		key := e.from + "->" + e.to
		if seen[key] {
			return
		}
		if _, ok := tmpl.Resources[e.to]; !ok {
			return
		}
		seen[key] = true
		out = append(out, e)
	}

	for _, name := range sortedNames(tmpl) {
		def := tmpl.Resources[name]
		for _, target := range def.DependsOn {
			add(edge{from: name, to: target})
		}
		walkReferences(def.Properties, func(target string, getAtt bool) {
			add(edge{from: name, to: target, getAtt: getAtt})
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].from != out[j].from {
			return out[i].from < out[j].from
		}
		return out[i].to < out[j].to
	})
	return out
}

// walkReferences visits every Ref and Fn::GetAtt target inside serialized
// properties.
func walkReferences(v any, visit func(target string, getAtt bool)) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
			visit(ref, false)
			return
		}
		if att, ok := val["Fn::GetAtt"]; ok && len(val) == 1 {
			if parts, ok := att.([]any); ok && len(parts) == 2 {
				if name, ok := parts[0].(string); ok {
					visit(name, true)
				}
			}
			return
		}
		for _, nested := range val {
			walkReferences(nested, visit)
		}
	case []any:
		for _, item := range val {
			walkReferences(item, visit)
		}
	}
}

// serviceOf extracts the service segment of a CloudFormation type.
// "AWS::ECS::Service" becomes "ECS".
func serviceOf(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}

func sortedNames(tmpl *cdkwebservice.Template) []string {
	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
