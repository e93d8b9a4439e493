// Package report prints and serializes test results.
package report

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hplusminus/domain/stats"
	"hplusminus/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ErrUnsupportedFormat is returned by SaveToFile for unknown extensions.
var ErrUnsupportedFormat = stderrors.New("unsupported report format")

// Formats lists the file extensions SaveToFile accepts.
var Formats = []string{".txt", ".csv", ".md", ".html"}

const htmlTitle = "hplusminus p-values"

// PrintTable writes the console table of p-values and their ratio to the
// chi-square p-value.
func PrintTable(w io.Writer, rs *stats.ResultSet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "         statistical                        p-value ratio   ")
	fmt.Fprintln(bw, "                test      p-value          w.r.t chi2-test  ")
	fmt.Fprintln(bw, strings.Repeat("-", 66))
	for _, test := range stats.AllTests {
		r := rs.Get(test)
		fmt.Fprintf(bw, "%20s      %3.2e            %2.1e\n", r.Label, r.P, rs.RatioToChi2(test))
	}
	return bw.Flush()
}

// WriteCSV writes the "test,I,p-value" table.
func WriteCSV(w io.Writer, rs *stats.ResultSet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "test,I,p-value")
	for _, test := range stats.AllTests {
		r := rs.Get(test)
		fmt.Fprintf(bw, "%s,%.10e,%.10e\n", test, r.I, r.P)
	}
	return bw.Flush()
}

// WriteText writes three whitespace-separated columns under a commented header.
func WriteText(w io.Writer, rs *stats.ResultSet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %8s %8s %18s\n", "test", "I", "p-value")
	for _, test := range stats.AllTests {
		r := rs.Get(test)
		fmt.Fprintf(bw, "%10s %.10e %.10e\n", test, r.I, r.P)
	}
	return bw.Flush()
}

// Markdown renders the results as a markdown table.
func Markdown(rs *stats.ResultSet) []byte {
	var b strings.Builder
	b.WriteString("| test | label | I | p-value | ratio w.r.t. chi2 |\n")
	b.WriteString("|---|---|---:|---:|---:|\n")
	for _, test := range stats.AllTests {
		r := rs.Get(test)
		fmt.Fprintf(&b, "| %s | %s | %.6e | %.6e | %.2e |\n",
			test, escapeMarkdown(r.Label), r.I, r.P, rs.RatioToChi2(test))
	}
	return []byte(b.String())
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteMarkdown writes the markdown table.
func WriteMarkdown(w io.Writer, rs *stats.ResultSet) error {
	_, err := w.Write(Markdown(rs))
	return err
}

// WriteHTML writes a complete HTML page rendered from the markdown table.
func WriteHTML(w io.Writer, rs *stats.ResultSet) error {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: htmlTitle,
		Flags: html.CommonFlags | html.CompletePage,
	})
	_, err := w.Write(markdown.ToHTML(Markdown(rs), p, renderer))
	return err
}

// WriterFor returns the serializer selected by the extension of path.
func WriterFor(path string) (func(io.Writer, *stats.ResultSet) error, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return WriteCSV, nil
	case ".txt":
		return WriteText, nil
	case ".md":
		return WriteMarkdown, nil
	case ".html", ".htm":
		return WriteHTML, nil
	}
	return nil, errors.UnsupportedFormat(
		fmt.Sprintf("format %q not recognized, use one of %s", ext, strings.Join(Formats, ", ")),
		ErrUnsupportedFormat)
}

// SaveToFile writes rs to path in the format selected by its extension. No
// file is created for an unsupported extension.
func SaveToFile(path string, rs *stats.ResultSet) (err error) {
	write, err := WriterFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.IOError(path, cerr)
		}
	}()

	if err := write(f, rs); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}
