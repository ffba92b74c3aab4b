package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	pkgio "github.com/matzehuels/png2svg/pkg/io"
	"github.com/matzehuels/png2svg/pkg/pipeline"
	"github.com/matzehuels/png2svg/pkg/vectorize"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	keepEveryPoint bool
	limit          int  // rows shown, 0 for all
	bySize         bool // sort regions by pixel count instead of scan order
	maxPixels      int64
}

// inspectCommand creates the inspect command, which traces an image and
// reports its regions without writing anything.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{limit: 20, maxPixels: pipeline.DefaultMaxPixels}
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the colour regions of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.keepEveryPoint, "keep-every-point", false, "count vertices without collapsing straight runs")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "maximum number of regions listed (0 for all)")
	cmd.Flags().BoolVar(&opts.bySize, "by-size", false, "list largest regions first")
	cmd.Flags().Int64Var(&opts.maxPixels, "max-pixels", opts.maxPixels, "reject images with more pixels than this")
	return cmd
}

// regionRow is one line of the inspect table.
type regionRow struct {
	index int
	shape vectorize.Shape
}

func runInspect(ctx context.Context, path string, opts inspectOpts) error {
	if opts.limit < 0 {
		return pkgerr.New(pkgerr.ErrCodeInvalidInput, "--limit must not be negative")
	}
	if opts.maxPixels < 0 {
		return pkgerr.New(pkgerr.ErrCodeInvalidInput, "--max-pixels must not be negative")
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Tracing "+path)
	spinner.Start()
	img, err := pkgio.ImportImageLimit(path, opts.maxPixels)
	if err != nil {
		spinner.Stop()
		return err
	}
	grid := vectorize.FromImage(img)
	res := vectorize.Vectorize(grid, vectorize.Options{KeepEveryPoint: opts.keepEveryPoint})
	spinner.Stop()
	prog.done(fmt.Sprintf("Traced %d regions in %s", res.Stats.Regions, path))

	st := res.Stats
	printKeyValue("File", path)
	printKeyValue("Size", fmt.Sprintf("%d × %d", st.Width, st.Height))
	printKeyValue("Regions", strconv.Itoa(st.Regions))
	printKeyValue("Contours", strconv.Itoa(st.Contours))
	printKeyValue("Vertices", strconv.Itoa(st.Vertices))
	printKeyValue("SVG", fmt.Sprintf("%d bytes", len(res.SVG)))
	fmt.Println()

	rows := make([]regionRow, len(res.Shapes))
	for i, s := range res.Shapes {
		rows[i] = regionRow{index: i, shape: s}
	}
	if opts.bySize {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].shape.Pixels > rows[j].shape.Pixels
		})
	}
	shown := rows
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
	}
	if len(shown) == 0 {
		printInfo("No opaque regions")
		return nil
	}

	fmt.Println(regionTable(shown))
	if len(shown) < len(rows) {
		printDetail("%d more region(s) not shown, use --limit 0 to list all", len(rows)-len(shown))
	}
	return nil
}

// regionTable renders regions with a colour swatch and their geometry.
func regionTable(rows []regionRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().PaddingRight(1)

	data := make([][]string, len(rows))
	swatches := make([]lipgloss.Style, len(rows))
	for i, r := range rows {
		hex, hcl := describeColor(r.shape.Color)
		swatches[i] = lipgloss.NewStyle().Background(lipgloss.Color(hex))
		data[i] = []string{
			strconv.Itoa(r.index),
			"  ",
			hex,
			hcl,
			alphaString(r.shape.Color.A),
			strconv.Itoa(r.shape.Pixels),
			strconv.Itoa(len(r.shape.Contours)),
			strconv.Itoa(r.shape.Vertices()),
			strconv.Itoa(r.shape.Area()),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "", "Colour", "HCL", "Alpha", "Pixels", "Contours", "Vertices", "Area").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return swatches[row]
			case col == 0 || col == 3:
				return cell.Foreground(colorDim)
			default:
				return cell
			}
		})
	return t.Render()
}

// describeColor returns the hex form of c and its HCL coordinates.
func describeColor(c vectorize.Color) (hex, hcl string) {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, ch, l := cf.Hcl()
	return cf.Hex(), fmt.Sprintf("%3.0f° %.2f %.2f", h, ch, l)
}

func alphaString(a uint8) string {
	return strconv.FormatFloat(float64(a)/255, 'f', 2, 64)
}
