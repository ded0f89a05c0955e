package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"     _", "#34d399"},
	{"    (_)___  ___  _ __  _ __ ___  ___", "#2dd4bf"},
	{"    | / __|/ _ \\| '_ \\| '_ ` _ \\/ __|", "#22d3ee"},
	{"    | \\__ \\ (_) | | | | | | | | \\__ \\", "#38bdf8"},
	{"   _/ |___/\\___/|_| |_|_| |_| |_|___/", "#60a5fa"},
	{"  |__/", "#818cf8"},
}

// PrintBanner writes the jsonms banner to w, colored when w is a color terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
