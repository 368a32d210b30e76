package schematic

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
	"github.com/matzehuels/schematic/pkg/netlist"
	"github.com/matzehuels/schematic/pkg/render"
)

// Schematic owns a component store and its cached layout.
type Schematic struct {
	store  *circuit.Store
	layout *layout.Layout // nil while unbuilt
	logger *log.Logger
}

// Option configures a Schematic.
type Option func(*Schematic)

// WithLogger sets the logger used for duplicate and staleness warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Schematic) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an empty schematic.
func New(opts ...Option) *Schematic {
	s := &Schematic{
		store:  circuit.New(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add parses line and stores the component. A component whose name is
// already present replaces the earlier definition and a warning is logged.
func (s *Schematic) Add(line string) error {
	c, err := netlist.Parse(line)
	if err != nil {
		return err
	}
	if s.Upsert(c) {
		s.logger.Warn("replaced component", "component", c.Name, "code", errors.ErrCodeDuplicateName)
	}
	return nil
}

// Upsert stores c and reports whether a component of the same name was
// replaced. Duplicates are not logged; see [Schematic.Add].
func (s *Schematic) Upsert(c netlist.Component) (replaced bool) {
	if s.layout != nil {
		s.logger.Debug("layout is stale", "component", c.Name)
	}
	return s.store.Upsert(c)
}

// Load adds every line of r. Blank lines and lines starting with '#' or '%'
// are skipped. Errors carry the 1-based line number.
func (s *Schematic) Load(r io.Reader) error {
	return netlist.Scan(r, func(number int, line string) error {
		if err := s.Add(line); err != nil {
			return errors.AtLine(err, number)
		}
		return nil
	})
}

// LoadFile adds every line of the netlist file at path.
func (s *Schematic) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open netlist: %w", err)
	}
	defer f.Close()
	if err := s.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// AddNetwork ingests a programmatically built network exactly as if its
// netlist text had been loaded.
func (s *Schematic) AddNetwork(n netlist.Netlister) error {
	return s.Load(strings.NewReader(n.Netlist()))
}

// Netlist returns the canonical text of all components in insertion order.
func (s *Schematic) Netlist() string {
	return s.store.Netlist()
}

// Component returns the stored definition of name.
func (s *Schematic) Component(name string) (netlist.Component, error) {
	return s.store.Component(name)
}

// Components returns all components in insertion order.
func (s *Schematic) Components() []netlist.Component {
	return s.store.Components()
}

// Nodes returns all nodes in registration order.
func (s *Schematic) Nodes() []*circuit.Node {
	return s.store.Nodes()
}

// Len returns the number of components.
func (s *Schematic) Len() int {
	return s.store.Len()
}

// Built reports whether a layout is cached.
func (s *Schematic) Built() bool {
	return s.layout != nil
}

// Layout returns the cached layout, solving it on first use.
func (s *Schematic) Layout() (*layout.Layout, error) {
	if s.layout != nil {
		return s.layout, nil
	}
	start := time.Now()
	l, err := layout.Solve(s.store)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("computed layout",
		"components", s.store.Len(),
		"nodes", len(l.Nodes),
		"duration", time.Since(start))
	s.layout = l
	return l, nil
}

// Invalidate drops the cached layout so the next draw solves again.
func (s *Schematic) Invalidate() {
	s.layout = nil
}

// UseLayout installs a previously computed layout, typically one restored
// from a cache. The layout must position exactly the schematic's nodes.
func (s *Schematic) UseLayout(l *layout.Layout) error {
	if l == nil || !l.Covers(s.store.NodeNames()) {
		return errors.New(errors.ErrCodeInvalidInput, "layout does not match the schematic's nodes")
	}
	s.layout = l
	return nil
}

// Commands returns the complete drawing for the current netlist.
func (s *Schematic) Commands(opts render.Options) ([]render.Command, error) {
	l, err := s.Layout()
	if err != nil {
		return nil, err
	}
	return render.Emit(s.store, l, opts)
}
