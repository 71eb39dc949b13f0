// Command minify writes minified copies of the board templates and static
// assets into dist/, which the server prefers when run with --production.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", (&html.Minifier{KeepDocumentTags: true, KeepEndTags: true, KeepQuotes: true, TemplateDelims: html.GoTemplateDelims}).Minify)
	m.AddFunc("application/javascript", js.Minify)
	return m
}

func main() {
	var (
		outDir = flag.String("out", "dist", "Output directory")
		input  = flag.String("input", "", "Minify a single file instead of the asset tree")
		output = flag.String("output", "", "Output path for -input")
	)
	flag.Parse()

	m := newMinifier()

	if *input != "" {
		if *output == "" {
			log.Fatal("Usage: go run ./cmd/minify -input=<file> -output=<file>")
		}
		if _, err := minifyFile(m, *input, *output); err != nil {
			log.Fatalf("Failed to minify %s: %v", *input, err)
		}
		return
	}

	for _, dir := range []string{"templates", "static"} {
		if err := minifyTree(m, dir, *outDir); err != nil {
			log.Fatalf("Error minifying %s: %v", dir, err)
		}
	}
	fmt.Printf("Minified files are in the %q directory\n", *outDir)
}

// minifyTree minifies every known asset under dir into outDir/dir.
func minifyTree(m *minify.M, dir, outDir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		ratio, err := minifyFile(m, path, filepath.Join(outDir, path))
		if err != nil {
			return err
		}
		fmt.Printf("%s: %.1f%% reduction\n", path, ratio)
		return nil
	})
}

// minifyFile writes a minified copy of srcPath to dstPath and returns the size reduction in percent.
func minifyFile(m *minify.M, srcPath, dstPath string) (float64, error) {
	mediaType, ok := mediaTypes[strings.ToLower(filepath.Ext(srcPath))]
	if !ok {
		return 0, fmt.Errorf("unsupported file type: %s", srcPath)
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return 0, err
	}

	minified, err := m.Bytes(mediaType, src)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dstPath, minified, 0644); err != nil {
		return 0, err
	}

	if len(src) == 0 {
		return 0, nil
	}
	return float64(len(src)-len(minified)) / float64(len(src)) * 100, nil
}
