package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/schematic/pkg/render"
	"github.com/matzehuels/schematic/pkg/schematic"
)

// Render encodes the drawing of s in every requested format. The schematic's
// layout must already be built or solvable.
func Render(ctx context.Context, s *schematic.Schematic, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cmds, err := s.Commands(opts.RenderOptions())
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatPDF, FormatPNG:
			if svg == nil {
				if svg, err = encode(ctx, schematic.FormatSVG, cmds); err != nil {
					return nil, fmt.Errorf("render svg: %w", err)
				}
			}
			if format == FormatPDF {
				data, err = render.ToPDF(ctx, svg)
			} else {
				data, err = render.ToPNG(ctx, svg, opts.Scale)
			}
		default:
			data, err = encode(ctx, schematic.Format(format), cmds)
			if format == FormatSVG {
				svg = data
			}
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func encode(ctx context.Context, f schematic.Format, cmds []render.Command) ([]byte, error) {
	var buf bytes.Buffer
	if err := schematic.Encode(ctx, &buf, f, cmds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
