package md2pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultFontFamily is the standard font stack for PDF footers.
const defaultFontFamily = "sans-serif"

// fontSizePresets maps size names to concrete pixel values.
var fontSizePresets = map[string]string{
	"small":  "12px",
	"medium": "14px",
	"large":  "16px",
	"xlarge": "18px",
}

// fontWeightPresets maps weight names to numeric CSS values.
var fontWeightPresets = map[string]string{
	"light":    "300",
	"normal":   "400",
	"medium":   "500",
	"semibold": "600",
	"bold":     "700",
	"black":    "900",
}

// cjkFontPresets maps font names to CSS font-family stacks covering the
// common CJK system fonts on Windows and macOS.
var cjkFontPresets = map[string]string{
	"simsun":   `SimSun, "宋体", serif`,
	"simhei":   `SimHei, "黑体", sans-serif`,
	"simkai":   `KaiTi, "楷体", "STKaiti", serif`,
	"fangsong": `FangSong, "仿宋", "STFangsong", serif`,
	"yahei":    `"Microsoft YaHei", "微软雅黑", sans-serif`,
	"auto":     `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Microsoft YaHei", "微软雅黑", "SimSun", "宋体", sans-serif`,
}

// lineSpacingPresets maps spacing names to CSS line-height values.
var lineSpacingPresets = map[string]string{
	"tight":   "1.2",
	"normal":  "1.6",
	"loose":   "2.0",
	"relaxed": "2.4",
}

// paragraphSpacingPresets maps spacing names to CSS margin values.
var paragraphSpacingPresets = map[string]string{
	"tight":   "0.5em",
	"normal":  "1em",
	"loose":   "1.5em",
	"relaxed": "2em",
}

// mathSpacingPresets maps spacing names to vertical margins around
// display math.
var mathSpacingPresets = map[string]string{
	"tight":   "10px",
	"normal":  "20px",
	"loose":   "30px",
	"relaxed": "40px",
}

// resolvePreset returns the preset value for name, or name itself when it
// is not a preset (explicit CSS values pass through).
func resolvePreset(presets map[string]string, name string) string {
	if v, ok := presets[strings.ToLower(name)]; ok {
		return v
	}
	return name
}

// resolveCJKFont is like resolvePreset but unknown names fall back to the
// auto stack rather than passing through, since a bare font name is rarely
// a complete family stack.
func resolveCJKFont(name string) string {
	if v, ok := cjkFontPresets[strings.ToLower(name)]; ok {
		return v
	}
	return cjkFontPresets["auto"]
}

// buildStyleCSS generates the document stylesheet from style settings.
// The print media block converts the screen pixel size to points
// (1px = 0.75pt) so the PDF font size matches the configured value.
func buildStyleCSS(s *StyleSettings) string {
	fontSize := resolvePreset(fontSizePresets, s.FontSize)
	fontFamily := resolveCJKFont(s.CJKFont)
	fontWeight := resolvePreset(fontWeightPresets, s.FontWeight)
	lineSpacing := resolvePreset(lineSpacingPresets, s.LineSpacing)
	paraSpacing := resolvePreset(paragraphSpacingPresets, s.ParagraphSpacing)
	mathSpacing := resolvePreset(mathSpacingPresets, s.MathSpacing)

	pxNum, err := strconv.ParseFloat(strings.TrimSuffix(fontSize, "px"), 64)
	if err != nil {
		pxNum = 14.0
	}
	ptSize := fmt.Sprintf("%gpt", pxNum*0.75)

	var b strings.Builder
	fmt.Fprintf(&b, `
/* Base */
body {
  font-family: %s;
  font-weight: %s;
  line-height: %s;
  max-width: 800px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background-color: #fff;
  font-size: %s;
}

/* Paragraph spacing */
p {
  margin-top: 0;
  margin-bottom: %s;
}

li {
  margin-bottom: calc(%s * 0.5);
}
`, fontFamily, fontWeight, lineSpacing, fontSize, paraSpacing, paraSpacing)

	fmt.Fprintf(&b, `
/* Math containers */
.math-block {
  margin: %s 0;
  text-align: center;
  overflow-x: auto;
}

.math-inline {
  display: inline;
}
`, mathSpacing)

	b.WriteString(`
/* Code */
pre {
  background-color: #f6f8fa;
  border: 1px solid #e1e4e8;
  border-radius: 6px;
  padding: 16px;
  overflow-x: auto;
  font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
  font-size: 14px;
  line-height: 1.45;
}

code {
  background-color: rgba(175, 184, 193, 0.2);
  border-radius: 6px;
  padding: 2px 4px;
  font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
  font-size: 85%;
}

pre code {
  background-color: transparent;
  border-radius: 0;
  padding: 0;
  font-size: 100%;
}

/* Tables */
table {
  border-collapse: collapse;
  margin: 25px 0;
  font-size: 0.9em;
  min-width: 400px;
  border-radius: 5px 5px 0 0;
  overflow: hidden;
  box-shadow: 0 0 20px rgba(0, 0, 0, 0.15);
}

table thead tr {
  background-color: #009879;
  color: #ffffff;
  text-align: left;
}

table th,
table td {
  padding: 12px 15px;
  border: 1px solid #dddddd;
}

table tbody tr {
  border-bottom: 1px solid #dddddd;
}

table tbody tr:nth-of-type(even) {
  background-color: #f3f3f3;
}
`)

	fmt.Fprintf(&b, `
/* Blockquotes */
blockquote {
  border-left: 4px solid #dfe2e5;
  padding: 0 16px;
  color: #6a737d;
  background-color: #f6f8fa;
  margin: %s 0;
  line-height: %s;
}

/* Headings */
h1, h2, h3, h4, h5, h6 {
  margin-top: calc(%s * 1.5);
  margin-bottom: %s;
  font-weight: 600;
  line-height: %s;
}

h1 {
  font-size: 2em;
  border-bottom: 1px solid #eaecef;
  padding-bottom: 0.3em;
}

h2 {
  font-size: 1.5em;
  border-bottom: 1px solid #eaecef;
  padding-bottom: 0.3em;
}

/* Links */
a {
  color: #0366d6;
  text-decoration: none;
}

a:hover {
  text-decoration: underline;
}
`, paraSpacing, lineSpacing, paraSpacing, paraSpacing, lineSpacing)

	fmt.Fprintf(&b, `
/* Print */
@media print {
  body {
    max-width: none;
    margin: 0;
    padding: 15mm;
    font-size: %s;
  }

  .math-block {
    page-break-inside: avoid;
  }

  pre {
    page-break-inside: avoid;
    white-space: pre-wrap;
  }

  table {
    page-break-inside: avoid;
  }

  h1, h2, h3, h4, h5, h6 {
    page-break-after: avoid;
  }
}
`, ptSize)

	return b.String()
}
