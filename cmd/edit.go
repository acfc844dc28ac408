package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
	"github.com/xkilldash9x/shapes-cli/internal/stylesync"
	"github.com/xkilldash9x/shapes-cli/internal/surface"
)

// script is a recorded editing session.
//
//	value: polygon(0 0, 100px 0, 100px 100px)
//	steps:
//	  - down: [100, 0]
//	  - move: [120, 10]
//	  - up: true
//	  - dblclick: [50, 0]
//	  - transform: "on"
//	  - matrix: rotate(90deg)
type script struct {
	Value string `yaml:"value"`
	Steps []step `yaml:"steps"`
}

// step holds exactly one action.
type step struct {
	Down      []float64 `yaml:"down,omitempty"`
	Move      []float64 `yaml:"move,omitempty"`
	Up        bool      `yaml:"up,omitempty"`
	DblClick  []float64 `yaml:"dblclick,omitempty"`
	Update    string    `yaml:"update,omitempty"`
	Transform string    `yaml:"transform,omitempty"`
	Matrix    string    `yaml:"matrix,omitempty"`
	Convert   bool      `yaml:"convert,omitempty"`
	Refresh   bool      `yaml:"refresh,omitempty"`
	Remove    bool      `yaml:"remove,omitempty"`
}

func loadScript(r io.Reader) (*script, error) {
	var s script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	if strings.TrimSpace(s.Value) == "" {
		return nil, fmt.Errorf("script has no initial value")
	}
	return &s, nil
}

func point(name string, xy []float64) (layout.Point, error) {
	if len(xy) != 2 {
		return layout.Point{}, fmt.Errorf("%s wants [x, y], got %v", name, xy)
	}
	return layout.Point{X: xy[0], Y: xy[1]}, nil
}

// apply runs one step. Gestures that miss are not errors.
func (s step) apply(e *editor.Editor) error {
	switch {
	case s.Down != nil:
		p, err := point("down", s.Down)
		if err != nil {
			return err
		}
		e.PointerDown(p)
	case s.Move != nil:
		p, err := point("move", s.Move)
		if err != nil {
			return err
		}
		e.PointerMove(p)
	case s.Up:
		e.PointerUp()
	case s.DblClick != nil:
		p, err := point("dblclick", s.DblClick)
		if err != nil {
			return err
		}
		e.DoubleClick(p)
	case s.Update != "":
		return e.Update(s.Update)
	case s.Transform != "":
		switch strings.ToLower(s.Transform) {
		case "on":
			return e.TurnOnFreeTransform()
		case "off":
			return e.TurnOffFreeTransform()
		case "toggle":
			return e.ToggleFreeTransform()
		}
		return fmt.Errorf("transform wants on, off or toggle, got %q", s.Transform)
	case s.Matrix != "":
		m, err := layout.ParseTransform(s.Matrix, nil)
		if err != nil {
			return err
		}
		return e.ApplyTransform(m)
	case s.Convert:
		_, err := e.ConvertUnits()
		return err
	case s.Refresh:
		return e.Refresh()
	case s.Remove:
		return e.Remove()
	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

// newEditCmd creates the `edit` command.
func newEditCmd() *cobra.Command {
	var (
		src     elementSource
		svgPath string
	)
	editCmd := &cobra.Command{
		Use:   "edit <script.yaml>",
		Short: "Replay a gesture script against a shape and print every change",
		Long: `Edit loads the script's initial value into an editor, replays its steps
and prints each shape change as a JSON line. With --svg the final frame is
written as an SVG overlay.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			sc, err := loadScript(f)
			f.Close()
			if err != nil {
				return err
			}

			target, err := src.resolve(ctx, cfg)
			if err != nil {
				return err
			}
			vw, vh := target.Viewport()
			overlay := surface.NewSVG(vw, vh)

			// Every change of a replay is printed, so nothing is throttled.
			syncer := stylesync.New(stylesync.NewJSONLinesSink(cmd.OutOrStdout()), 0, logger)
			opts := append(editor.FromConfig(cfg.Editor()),
				editor.WithLogger(logger),
				editor.WithSurface(overlay),
			)
			e, err := editor.New(target, sc.Value, opts...)
			if err != nil {
				return err
			}
			defer syncer.Attach(e)()
			if err := syncer.Announce(e); err != nil {
				return err
			}

			for i, st := range sc.Steps {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := st.apply(e); err != nil {
					return fmt.Errorf("step %d: %w", i+1, err)
				}
			}
			if err := syncer.Flush(); err != nil {
				return err
			}
			written, _ := syncer.Stats()
			logger.Info("Script replayed", zap.Int("steps", len(sc.Steps)), zap.Int("changes", written), zap.String("value", e.CSSValue()))

			if svgPath == "" {
				return nil
			}
			out, err := os.Create(svgPath)
			if err != nil {
				return fmt.Errorf("creating overlay: %w", err)
			}
			defer out.Close()
			if _, err := overlay.WriteTo(out); err != nil {
				return fmt.Errorf("writing overlay: %w", err)
			}
			return nil
		},
	}
	addElementFlags(editCmd, &src)
	editCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as an SVG overlay")
	return editCmd
}
