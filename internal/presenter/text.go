package presenter

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"CryptoSeason/internal/domain/models"
)

// DashboardTitle heads every rendering.
const DashboardTitle = "Cryptocurrency December-March Analysis"

const barWidth = 30

// RenderText writes a terminal rendering of v. While loading only the
// spinner line is shown; on error only the message.
func RenderText(w io.Writer, v models.DashboardView) error {
	ew := &errWriter{w: w}

	ew.printf("%s\n%s\n\n", DashboardTitle, strings.Repeat("=", len(DashboardTitle)))
	ew.printf("Asset: %s\n\n", selector(v))

	switch {
	case v.Loading:
		ew.printf("Loading...\n")
		return ew.err
	case v.Error != "":
		ew.printf("Error: %s\n", v.Error)
		return ew.err
	case v.Summary == nil:
		ew.printf("No data.\n")
		return ew.err
	}

	tiles := Tiles(v.Summary)
	tab := tabwriter.NewWriter(ew, 0, 0, 3, ' ', 0)
	for i, t := range tiles {
		sep := "\t"
		if i == len(tiles)-1 {
			sep = "\n"
		}
		fmt.Fprint(tab, t.Title+sep)
	}
	for i, t := range tiles {
		sep := "\t"
		if i == len(tiles)-1 {
			sep = "\n"
		}
		fmt.Fprint(tab, t.Value+sep)
	}
	if err := tab.Flush(); err != nil {
		return err
	}

	bars := v.Returns
	if len(bars.Points) == 0 {
		bars = ReturnBars(v.Records)
	}
	ew.printf("\n%s\n", bars.Name)
	renderBars(ew, bars)

	risk := v.Risk
	if len(risk) == 0 {
		risk = RiskLines(v.Records)
	}
	ew.printf("\n")
	renderRiskTable(ew, risk)
	return ew.err
}

func selector(v models.DashboardView) string {
	if len(v.Assets) == 0 {
		return fmt.Sprintf("(%s) %s", v.Selected, v.Selected.DisplayName())
	}
	parts := make([]string, len(v.Assets))
	for i, a := range v.Assets {
		mark := " "
		if a.Symbol == v.Selected {
			mark = "x"
		}
		parts[i] = fmt.Sprintf("[%s] %s %s", mark, a.Symbol, a.Name)
	}
	return strings.Join(parts, "  ")
}

// renderBars draws a horizontal bar per point, scaled to the largest
// absolute value. Negative bars grow to the left of the axis.
func renderBars(w *errWriter, s models.Series) {
	maxAbs := 0.0
	labelWidth := 0
	for _, p := range s.Points {
		maxAbs = math.Max(maxAbs, math.Abs(p.Value))
		labelWidth = max(labelWidth, len(p.Label))
	}
	for _, p := range s.Points {
		n := 0
		if maxAbs > 0 {
			n = int(math.Round(math.Abs(p.Value) / maxAbs * barWidth))
		}
		left, right := strings.Repeat(" ", barWidth), ""
		if p.Value < 0 {
			left = strings.Repeat(" ", barWidth-n) + strings.Repeat("#", n)
		} else {
			right = strings.Repeat("#", n)
		}
		w.printf("%-*s %8.1f %s|%s\n", labelWidth, p.Label, p.Value, left, right)
	}
}

func renderRiskTable(w *errWriter, lines []models.Series) {
	tab := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.AlignRight)
	header := []string{"Season"}
	for _, s := range lines {
		header = append(header, s.Name)
	}
	fmt.Fprintln(tab, strings.Join(header, "\t")+"\t")

	if len(lines) > 0 {
		for i, p := range lines[0].Points {
			row := []string{p.Label}
			for _, s := range lines {
				if i < len(s.Points) {
					row = append(row, fmt.Sprintf("%.1f", s.Points[i].Value))
				}
			}
			fmt.Fprintln(tab, strings.Join(row, "\t")+"\t")
		}
	}
	if err := tab.Flush(); err != nil && w.err == nil {
		w.err = err
	}
}

// errWriter remembers the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}
