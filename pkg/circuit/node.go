package circuit

import (
	"strings"

	"github.com/matzehuels/schematic/pkg/netlist"
)

// Node symbols used for terminal decoration.
const (
	SymbolPort = "o" // open circle
	SymbolNode = "*" // filled dot
)

// Node is a named electrical connection point.
type Node struct {
	Name     string
	RootName string // prefix before the first underscore
	Primary  bool   // true when the name has no virtual suffix
	Port     bool   // true when any attached component is a port

	components []string
}

func newNode(name string) *Node {
	root, _, virtual := strings.Cut(name, netlist.NodeSeparator)
	return &Node{
		Name:     name,
		RootName: root,
		Primary:  !virtual,
	}
}

func (n *Node) attach(c netlist.Component) {
	if c.IsPort() {
		n.Port = true
	}
	n.components = append(n.components, c.Name)
}

// Components returns the names of the components attached to n, in
// attachment order. A component re-added under the same name appears once
// per definition.
func (n *Node) Components() []string {
	return append([]string(nil), n.components...)
}

// Symbol returns the decoration marker of the node.
func (n *Node) Symbol() string {
	if n.Port {
		return SymbolPort
	}
	return SymbolNode
}

// Group is the set of nodes sharing a root name.
type Group struct {
	Root string

	members []string
	reps    map[string]string
}

// Members returns the node names of the group in first-registration order.
func (g *Group) Members() []string {
	return append([]string(nil), g.members...)
}

// Len returns the number of member nodes.
func (g *Group) Len() int { return len(g.members) }

// Representative returns the first component that referenced node.
func (g *Group) Representative(node string) (string, bool) {
	c, ok := g.reps[node]
	return c, ok
}

func (g *Group) add(node, component string) {
	if _, ok := g.reps[node]; ok {
		return
	}
	g.reps[node] = component
	g.members = append(g.members, node)
}
