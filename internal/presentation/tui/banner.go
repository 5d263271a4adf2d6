package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`                 _                            `, "#38bdf8"},
	{` __      ____ _| |_ ___ _ __ ___ __ _ _ __    `, "#22d3ee"},
	{` \ \ /\ / / _` + "`" + ` | __/ _ \ '__/ __/ _` + "`" + ` | '_ \   `, "#2dd4bf"},
	{`  \ V  V / (_| | ||  __/ | | (_| (_| | |_) |  `, "#34d399"},
	{`   \_/\_/ \__,_|\__\___|_|  \___\__,_| .__/   `, "#4ade80"},
	{`                                      |_|      `, "#a3e635"},
}

// PrintBanner writes the ASCII banner and version to w.
// Colors are dropped when w is not a color capable terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
