package assets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caojiachen1/md2pdf/internal/fileutil"
)

// ErrKatexAsset indicates a KaTeX resource could not be loaded.
// Missing KaTeX assets degrade the output (math renders as raw TeX)
// but never fail a conversion.
var ErrKatexAsset = errors.New("katex asset unavailable")

// fontURLPattern matches font references in katex.min.css.
var fontURLPattern = regexp.MustCompile(`url\(fonts/([^)]+)\)`)

// KatexAssets holds the KaTeX sources inlined into the document.
type KatexAssets struct {
	CSS          string // katex.min.css with fonts inlined as data URLs
	JS           string // katex.min.js
	AutoRenderJS string // contrib/auto-render.min.js
}

// Empty reports whether no KaTeX resources were loaded at all.
func (k KatexAssets) Empty() bool {
	return k.CSS == "" && k.JS == "" && k.AutoRenderJS == ""
}

// LoadKatex loads KaTeX CSS (with inlined fonts), the core script, and the
// auto-render extension from dir/katex. Each missing piece is reported in
// the joined error and loaded as empty; callers treat the error as a
// warning, not a failure.
func LoadKatex(dir string) (KatexAssets, error) {
	var k KatexAssets
	var errs []error

	css, err := loadKatexCSS(dir)
	if err != nil {
		errs = append(errs, err)
	}
	k.CSS = css

	js, err := readKatexFile(dir, "katex.min.js")
	if err != nil {
		errs = append(errs, err)
	}
	k.JS = js

	autoRender, err := readKatexFile(dir, filepath.Join("contrib", "auto-render.min.js"))
	if err != nil {
		errs = append(errs, err)
	}
	k.AutoRenderJS = autoRender

	return k, errors.Join(errs...)
}

// loadKatexCSS reads katex.min.css and replaces every url(fonts/X) reference
// with an inline base64 data URL so the document needs no font files on disk.
func loadKatexCSS(dir string) (string, error) {
	css, err := readKatexFile(dir, "katex.min.css")
	if err != nil {
		return "", err
	}

	fontsDir := filepath.Join(dir, "katex", "fonts")
	return inlineFonts(css, fontsDir), nil
}

// inlineFonts substitutes each font reference once, in order. Fonts that
// cannot be read keep their original url() reference.
func inlineFonts(css, fontsDir string) string {
	for _, match := range fontURLPattern.FindAllStringSubmatch(css, -1) {
		fontFile := match[1]

		data, err := os.ReadFile(filepath.Join(fontsDir, filepath.Clean(fontFile)))
		if err != nil {
			continue
		}

		dataURL := "data:" + fontMIMEType(fontFile) + ";base64," + base64.StdEncoding.EncodeToString(data)
		css = strings.Replace(css, "url(fonts/"+fontFile+")", "url("+dataURL+")", 1)
	}
	return css
}

// fontMIMEType returns the MIME type for a KaTeX font file.
func fontMIMEType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".woff2"):
		return "font/woff2"
	case strings.HasSuffix(filename, ".woff"):
		return "font/woff"
	default:
		return "font/ttf"
	}
}

// readKatexFile reads a file from dir/katex, wrapping failures in ErrKatexAsset.
func readKatexFile(dir, name string) (string, error) {
	path := filepath.Join(dir, "katex", name)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrKatexAsset, path, err)
	}
	return string(content), nil
}

// ResolveDir locates the assets directory: next to the executable if an
// assets directory exists there, otherwise CWD/assets.
func ResolveDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "assets")
		if fileutil.DirExists(dir) {
			return dir
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "assets"
	}
	return filepath.Join(cwd, "assets")
}
