package schematic

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/render"
	"github.com/matzehuels/schematic/pkg/render/nodelink"
	"github.com/matzehuels/schematic/pkg/render/tikz"
)

// Format selects the encoding of a drawing.
type Format string

const (
	FormatTikZ Format = "tikz"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{FormatTikZ, FormatJSON, FormatDOT, FormatSVG}

// ParseFormat maps a name to a Format. The empty string selects TikZ.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatTikZ, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be tikz, json, dot or svg)", name)
}

// Ext returns the file extension used for f.
func (f Format) Ext() string {
	if f == FormatTikZ {
		return ".tex"
	}
	return "." + string(f)
}

// DrawOptions selects decoration and output format.
type DrawOptions struct {
	render.Options
	Format Format
}

// Draw writes the drawing to w, or to standard output when w is nil.
// Commands are built before anything is written, so a failing layout or
// emit leaves w untouched.
func (s *Schematic) Draw(ctx context.Context, w io.Writer, opts DrawOptions) error {
	cmds, err := s.Commands(opts.Options)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stdout
	}
	return Encode(ctx, w, opts.Format, cmds)
}

// DrawFile writes the drawing to path. The file is closed on every path and
// removed when encoding fails.
func (s *Schematic) DrawFile(ctx context.Context, path string, opts DrawOptions) (err error) {
	cmds, err := s.Commands(opts.Options)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return Encode(ctx, f, opts.Format, cmds)
}

// Encode writes cmds to w in the given format.
func Encode(ctx context.Context, w io.Writer, format Format, cmds []render.Command) error {
	switch format {
	case FormatTikZ, "":
		return tikz.Write(w, cmds)
	case FormatJSON:
		return render.WriteJSON(w, cmds)
	case FormatDOT:
		_, err := io.WriteString(w, nodelink.ToDOT(cmds))
		return err
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(cmds))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}
