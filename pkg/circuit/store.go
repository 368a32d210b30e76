package circuit

import (
	"strings"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/netlist"
)

// Store is the graph of components and nodes of one schematic.
//
// The zero value is not usable - use New to create a Store.
type Store struct {
	components map[string]netlist.Component
	order      []string // component names in first-insertion order

	nodes     map[string]*Node
	nodeOrder []string

	groups     map[string]*Group
	groupOrder []string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		components: make(map[string]netlist.Component),
		nodes:      make(map[string]*Node),
		groups:     make(map[string]*Group),
	}
}

// Upsert registers c under its name and records both terminals in the node
// registry and the virtual-node groups. When a component with the same name
// exists it is replaced in place, keeping its original position, and
// replaced is true.
func (s *Store) Upsert(c netlist.Component) (replaced bool) {
	if _, replaced = s.components[c.Name]; !replaced {
		s.order = append(s.order, c.Name)
	}
	s.components[c.Name] = c

	for _, name := range c.Nodes {
		s.addNode(name, c)
	}
	return replaced
}

func (s *Store) addNode(name string, c netlist.Component) {
	n, ok := s.nodes[name]
	if !ok {
		n = newNode(name)
		s.nodes[name] = n
		s.nodeOrder = append(s.nodeOrder, name)
	}
	n.attach(c)

	g, ok := s.groups[n.RootName]
	if !ok {
		g = &Group{Root: n.RootName, reps: make(map[string]string)}
		s.groups[n.RootName] = g
		s.groupOrder = append(s.groupOrder, n.RootName)
	}
	g.add(name, c.Name)
}

// Component returns the component registered under name, or a NOT_FOUND
// error.
func (s *Store) Component(name string) (netlist.Component, error) {
	c, ok := s.components[name]
	if !ok {
		return netlist.Component{}, errors.New(errors.ErrCodeNotFound, "component %s not found", name)
	}
	return c, nil
}

// Components returns all components in insertion order.
func (s *Store) Components() []netlist.Component {
	out := make([]netlist.Component, len(s.order))
	for i, name := range s.order {
		out[i] = s.components[name]
	}
	return out
}

// Node returns the node with the given name.
func (s *Store) Node(name string) (*Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Nodes returns all nodes in registration order.
func (s *Store) Nodes() []*Node {
	out := make([]*Node, len(s.nodeOrder))
	for i, name := range s.nodeOrder {
		out[i] = s.nodes[name]
	}
	return out
}

// NodeNames returns all node names in registration order.
func (s *Store) NodeNames() []string {
	return append([]string(nil), s.nodeOrder...)
}

// Groups returns the virtual-node groups in order of first appearance.
func (s *Store) Groups() []*Group {
	out := make([]*Group, len(s.groupOrder))
	for i, root := range s.groupOrder {
		out[i] = s.groups[root]
	}
	return out
}

// Len returns the number of components.
func (s *Store) Len() int { return len(s.order) }

// NodeCount returns the number of distinct nodes.
func (s *Store) NodeCount() int { return len(s.nodeOrder) }

// Netlist serializes the components back to netlist text, one line per
// component in insertion order.
func (s *Store) Netlist() string {
	lines := make([]string, len(s.order))
	for i, name := range s.order {
		lines[i] = s.components[name].String()
	}
	return strings.Join(lines, "\n")
}
