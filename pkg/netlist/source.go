package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// commentPrefixes mark lines that are skipped when reading a netlist source.
const commentPrefixes = "#%"

// Netlister is implemented by anything that can describe itself as netlist
// text, such as a programmatic network builder. The output must follow the
// line grammar accepted by [Parse].
type Netlister interface {
	Netlist() string
}

// Scan reads netlist lines from r and calls fn for every line that is
// neither blank nor a comment. The number passed to fn is 1-based and counts
// every physical line. Scan stops at the first error returned by fn.
func Scan(r io.Reader, fn func(number int, line string) error) error {
	sc := bufio.NewScanner(r)
	number := 0
	for sc.Scan() {
		number++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.ContainsRune(commentPrefixes, rune(line[0])) {
			continue
		}
		if err := fn(number, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read netlist: %w", err)
	}
	return nil
}

// NodeCounter hands out sequential node names for netlist builders. The
// counter is owned by the builder and threaded explicitly rather than kept as
// hidden state, so two builders never share numbering.
type NodeCounter struct {
	next int
}

// NewNodeCounter returns a counter whose first node is start.
func NewNodeCounter(start int) *NodeCounter {
	return &NodeCounter{next: start}
}

// Next returns a fresh node name.
func (c *NodeCounter) Next() string {
	n := c.next
	c.next++
	return strconv.Itoa(n)
}

// Peek returns the name the next call to Next will return.
func (c *NodeCounter) Peek() string {
	return strconv.Itoa(c.next)
}

// Lines is a Netlister over a fixed slice of lines.
type Lines []string

// Netlist joins the lines with newlines.
func (l Lines) Netlist() string {
	return strings.Join(l, "\n")
}
