// Package template assembles declared resources into a CloudFormation template.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	cdkwebservice "github.com/thunder-so/cdk-webservice"
	"github.com/thunder-so/cdk-webservice/internal/serialize"
)

// Builder collects resource declarations keyed by logical name and produces
// a CloudFormation template. Logical names derive from the descriptor, so
// re-synthesizing the same descriptor yields the same template and the stack
// engine updates resources in place instead of duplicating them.
type Builder struct {
	description string
	resources   map[string]entry
	outputs     map[string]cdkwebservice.Output
	order       []string // declaration order, for stable error reporting
}

type entry struct {
	resource  cdkwebservice.Resource
	dependsOn []string
}

// NewBuilder creates an empty template builder.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]entry),
		outputs:     make(map[string]cdkwebservice.Output),
	}
}

// Add declares a resource under the given logical name.
// Declaring the same logical name twice is a programming error and fails the
// subsequent Build.
func (b *Builder) Add(name string, r cdkwebservice.Resource, dependsOn ...string) {
	if _, dup := b.resources[name]; dup {
		// Recorded here, surfaced by Build: callers chain Add without
		// error handling.
		b.resources[name] = entry{resource: nil}
		return
	}
	b.resources[name] = entry{resource: r, dependsOn: dependsOn}
	b.order = append(b.order, name)
}

// AddOutput declares a stack output.
func (b *Builder) AddOutput(name string, out cdkwebservice.Output) {
	b.outputs[name] = out
}

// Has reports whether a logical name has been declared.
func (b *Builder) Has(name string) bool {
	_, ok := b.resources[name]
	return ok
}

// ResourceNames returns all declared logical names, sorted.
func (b *Builder) ResourceNames() []string {
	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build serializes every declared resource and assembles the template.
// References to undeclared logical names fail the build: a template with a
// dangling Ref would only fail later, inside the stack engine.
func (b *Builder) Build() (*cdkwebservice.Template, error) {
	tmpl := &cdkwebservice.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              b.description,
		Resources:                make(map[string]cdkwebservice.ResourceDef),
	}

	for name, e := range b.resources {
		if e.resource == nil {
			return nil, fmt.Errorf("duplicate resource declaration: %s", name)
		}

		props, err := serialize.Properties(e.resource)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		for _, dep := range e.dependsOn {
			if _, ok := b.resources[dep]; !ok {
				return nil, fmt.Errorf("%s depends on undeclared resource %s", name, dep)
			}
		}

		tmpl.Resources[name] = cdkwebservice.ResourceDef{
			Type:       e.resource.ResourceType(),
			Properties: props,
			DependsOn:  append([]string(nil), e.dependsOn...),
		}
	}

	if err := b.checkReferences(tmpl); err != nil {
		return nil, err
	}
	if err := b.checkAcyclic(tmpl); err != nil {
		return nil, err
	}

	if len(b.outputs) > 0 {
		tmpl.Outputs = make(map[string]cdkwebservice.Output, len(b.outputs))
		for name, out := range b.outputs {
			tmpl.Outputs[name] = out
		}
	}

	return tmpl, nil
}

// checkReferences walks serialized properties and verifies every Ref and
// Fn::GetAtt target is either a pseudo parameter or a declared resource.
func (b *Builder) checkReferences(tmpl *cdkwebservice.Template) error {
	var errs []string

	for _, name := range b.sortedNames() {
		def := tmpl.Resources[name]
		for _, target := range referencedNames(def.Properties) {
			if isPseudoParameter(target) || isDynamicReference(target) {
				continue
			}
			if _, ok := b.resources[target]; !ok {
				errs = append(errs, fmt.Sprintf("%s references undeclared resource %s", name, target))
			}
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return errors.New("unresolved references:\n  " + joinLines(errs))
	}
	return nil
}

// checkAcyclic runs Kahn's algorithm over Ref/GetAtt/DependsOn edges and
// fails on a dependency cycle.
func (b *Builder) checkAcyclic(tmpl *cdkwebservice.Template) error {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, def := range tmpl.Resources {
		deps := append([]string(nil), def.DependsOn...)
		for _, target := range referencedNames(def.Properties) {
			if _, ok := b.resources[target]; ok {
				deps = append(deps, target)
			}
		}
		for _, dep := range deps {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if visited != len(b.resources) {
		var stuck []string
		for name, degree := range inDegree {
			if degree > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return fmt.Errorf("circular dependency involving: %v", stuck)
	}
	return nil
}

func (b *Builder) sortedNames() []string {
	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// referencedNames extracts the logical names targeted by Ref and Fn::GetAtt
// intrinsics anywhere inside serialized properties.
func referencedNames(v any) []string {
	var names []string

	var walk func(any)
	walk = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
				names = append(names, ref)
				return
			}
			if att, ok := val["Fn::GetAtt"]; ok && len(val) == 1 {
				if parts, ok := att.([]any); ok && len(parts) == 2 {
					if name, ok := parts[0].(string); ok {
						names = append(names, name)
					}
				}
				return
			}
			for _, nested := range val {
				walk(nested)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		}
	}

	walk(v)
	return names
}

// isPseudoParameter reports whether the name is a CloudFormation
// pseudo parameter such as AWS::Region.
func isPseudoParameter(name string) bool {
	return len(name) > 5 && name[:5] == "AWS::"
}

// isDynamicReference reports whether the name is a {{resolve:...}} dynamic
// reference rather than a logical name.
func isDynamicReference(name string) bool {
	return len(name) > 2 && name[:2] == "{{"
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n  "
		}
		out += l
	}
	return out
}

// ToJSON serializes the template to pretty-printed JSON.
func ToJSON(t *cdkwebservice.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *cdkwebservice.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
