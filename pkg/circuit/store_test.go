package circuit

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/netlist"
)

func build(t *testing.T, lines ...string) *Store {
	t.Helper()
	s := New()
	for _, line := range lines {
		c, err := netlist.Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		s.Upsert(c)
	}
	return s
}

var exampleLines = []string{
	"P1 1 0.1",
	"R1 3 1; right",
	"L1 2 3; right",
	"C1 3 0; down",
	"P2 2 0.2",
}

func TestStoreExample(t *testing.T) {
	s := build(t, exampleLines...)

	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
	want := []string{"1", "0_1", "3", "2", "0", "0_2"}
	if got := s.NodeNames(); !slices.Equal(got, want) {
		t.Errorf("NodeNames() = %v, want %v", got, want)
	}
	if s.NodeCount() != len(want) {
		t.Errorf("NodeCount() = %d, want %d", s.NodeCount(), len(want))
	}
}

func TestNodeAttributes(t *testing.T) {
	s := build(t, exampleLines...)

	tests := []struct {
		name    string
		root    string
		primary bool
		port    bool
		symbol  string
	}{
		{"1", "1", true, true, SymbolPort},
		{"3", "3", true, false, SymbolNode},
		{"0", "0", true, false, SymbolNode},
		{"0_1", "0", false, true, SymbolPort},
		{"0_2", "0", false, true, SymbolPort},
	}
	for _, tt := range tests {
		n, ok := s.Node(tt.name)
		if !ok {
			t.Fatalf("node %q missing", tt.name)
		}
		if n.RootName != tt.root || n.Primary != tt.primary || n.Port != tt.port || n.Symbol() != tt.symbol {
			t.Errorf("node %q = {root %q primary %v port %v symbol %q}, want {%q %v %v %q}",
				tt.name, n.RootName, n.Primary, n.Port, n.Symbol(), tt.root, tt.primary, tt.port, tt.symbol)
		}
	}

	n3, _ := s.Node("3")
	if got := n3.Components(); !slices.Equal(got, []string{"R1", "L1", "C1"}) {
		t.Errorf("node 3 components = %v", got)
	}
}

func TestUpsertReplaces(t *testing.T) {
	s := New()
	if s.Upsert(netlist.MustParse("R1 1 2")) {
		t.Error("first Upsert reported replacement")
	}
	s.Upsert(netlist.MustParse("C1 2 0"))
	if !s.Upsert(netlist.MustParse("R1 1 3; right")) {
		t.Error("second Upsert did not report replacement")
	}

	c, err := s.Component("R1")
	if err != nil {
		t.Fatalf("Component: %v", err)
	}
	if c.Nodes[1] != "3" || c.Hints.Dir != netlist.Right {
		t.Errorf("Component(R1) = %+v, want second definition", c)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	// Replacement keeps the original position; stale node 2 stays registered.
	if got := s.Netlist(); got != "R1 1 3; right\nC1 2 0" {
		t.Errorf("Netlist() = %q", got)
	}
	if _, ok := s.Node("2"); !ok {
		t.Error("node 2 should remain registered")
	}
}

func TestComponentNotFound(t *testing.T) {
	s := New()
	_, err := s.Component("R9")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Component(R9) error = %v, want NOT_FOUND", err)
	}
}

func TestNetlistRoundTrip(t *testing.T) {
	s := build(t, exampleLines...)
	again := build(t, strings.Split(s.Netlist(), "\n")...)
	if s.Netlist() != again.Netlist() {
		t.Errorf("netlist changed:\n%s\n---\n%s", s.Netlist(), again.Netlist())
	}
	if got, want := s.Netlist(), "P1 1 0_1\nR1 3 1; right\nL1 2 3; right\nC1 3 0; down\nP2 2 0_2"; got != want {
		t.Errorf("Netlist() =\n%s\nwant\n%s", got, want)
	}
}

func TestGroups(t *testing.T) {
	s := build(t, exampleLines...)

	var roots []string
	for _, g := range s.Groups() {
		roots = append(roots, g.Root)
	}
	if want := []string{"1", "0", "3", "2"}; !slices.Equal(roots, want) {
		t.Errorf("group roots = %v, want %v", roots, want)
	}

	var zero *Group
	for _, g := range s.Groups() {
		if g.Root == "0" {
			zero = g
		}
	}
	if zero == nil {
		t.Fatal("group 0 missing")
	}
	if got := zero.Members(); !slices.Equal(got, []string{"0_1", "0", "0_2"}) {
		t.Errorf("group 0 members = %v", got)
	}
	if rep, ok := zero.Representative("0"); !ok || rep != "C1" {
		t.Errorf("Representative(0) = %q, %v, want C1", rep, ok)
	}
}
