package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/jsonms/internal/presentation/tui"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/template"
	"github.com/spf13/cobra"
)

// Output modes of the render command.
const (
	outputAuto   = "auto"
	outputText   = "text"
	outputHTML   = "html"
	outputPretty = "pretty"
)

type renderOptions struct {
	Template  string
	Name      string
	Templates string
	Set       []string
	Format    string
	Tag       string
	Output    string
	Missing   bool
}

var renderCmd = &cobra.Command{
	Use:   "render [template]",
	Short: "Render a placeholder template",
	Long: `Renders a template such as "Hello {name}!" with the fragments given by --set.
A placeholder may be set several times; its fragments are rendered in order.

  jsonms render "Hello {name}!" --set name=Ada
  jsonms render --templates ./templates --name greeting --set name=**Ada** --format markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := renderOptions{}
		if len(args) > 0 {
			opts.Template = args[0]
		}
		opts.Name, _ = cmd.Flags().GetString("name")
		opts.Templates, _ = cmd.Flags().GetString("templates")
		opts.Set, _ = cmd.Flags().GetStringArray("set")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Tag, _ = cmd.Flags().GetString("tag")
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Missing, _ = cmd.Flags().GetBool("missing")

		if opts.Output == outputAuto {
			opts.Output = outputText
			if tui.IsTerminal(os.Stdout) {
				opts.Output = outputPretty
			}
		}
		return runRender(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func runRender(ctx context.Context, w io.Writer, opts renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fragments, err := parseSets(opts.Set)
	if err != nil {
		return err
	}
	format := template.Format(opts.Format)

	req := template.Request{Template: opts.Template, Fragments: fragments, Format: format, Tag: opts.Tag}
	if opts.Name != "" {
		if opts.Templates == "" {
			return errors.New("--name requires --templates")
		}
		lib, err := openLibrary(opts.Templates)
		if err != nil {
			return err
		}
		doc, err := lib.Get(ctx, opts.Name)
		if err != nil {
			return err
		}
		req = template.RequestFromDoc(doc, fragments, format)
		if opts.Tag != "" {
			req.Tag = opts.Tag
		}
	}

	result, err := template.Execute(req, domain.Hooks{})
	if err != nil {
		return err
	}

	switch opts.Output {
	case outputHTML:
		fmt.Fprintln(w, result.HTML)
	case outputPretty:
		render, err := tui.NewRenderer(tui.Width(os.Stdout))
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		out, err := render(result.Text)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		fmt.Fprint(w, out)
	case outputText, "":
		fmt.Fprintln(w, result.Text)
	default:
		return fmt.Errorf("unknown output %q. Supported: auto, text, html, pretty", opts.Output)
	}

	if opts.Missing && len(result.Missing) > 0 {
		fmt.Fprintf(w, "missing: %s\n", strings.Join(result.Missing, ", "))
	}
	return nil
}

// parseSets turns repeated name=value flags into fragment lists.
func parseSets(sets []string) (map[string][]string, error) {
	fragments := make(map[string][]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", s)
		}
		fragments[name] = append(fragments[name], value)
	}
	return fragments, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("name", "", "Template name in the library (see --templates)")
	renderCmd.Flags().StringArray("set", nil, "Fragment as name=value, repeatable")
	renderCmd.Flags().String("format", "text", "Fragment format: text, markdown or html")
	renderCmd.Flags().String("tag", "", "Wrapper element of the HTML output (default span)")
	renderCmd.Flags().StringP("output", "o", outputAuto, "Output: auto, text, html or pretty")
	renderCmd.Flags().Bool("missing", false, "List placeholders without fragments")
}
