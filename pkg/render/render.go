// Package render wraps raw content bodies in self-contained HTML documents
// and recovers the editable body from stored documents.
package render

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

var (
	notePattern      = regexp.MustCompile(`(?s)<div class="note">(.*?)</div>`)
	containerPattern = regexp.MustCompile(`(?s)<div class="container">(.*?)</div>\s*</body>`)
	bodyPattern      = regexp.MustCompile(`(?s)<body[^>]*>(.*?)</body>`)
	h1Pattern        = regexp.MustCompile(`(?s)<h1[^>]*>.*?</h1>`)
)

const noteStyle = `:root{--ink:#111827;--muted:#6b7280;--bg:#fff1f2;--card:#fff;--pink:#ec4899;}
body{font-family:system-ui,"Noto Sans TC",Arial,sans-serif;margin:0;background:var(--bg);color:var(--ink);}
.header{background:#111827;color:#fff;padding:10px 14px;}
.header a{color:#f9a8d4;text-decoration:none}
.container{max-width:800px;margin:18px auto;background:var(--card);border-radius:14px;padding:18px 20px;box-shadow:0 10px 30px rgba(0,0,0,.06);border:1px dashed #fbcfe8}
.tag{display:inline-flex;gap:6px;align-items:center;background:#fdf2f8;color:#9d174d;border:1px solid #fbcfe8;border-radius:999px;padding:4px 8px;font-size:12px;margin-bottom:8px}
.note{font-size:16px;line-height:1.7; white-space: pre-wrap;}`

const lessonStyle = `body{font-family:system-ui,"Noto Sans TC",Arial,sans-serif;margin:0;background:#f6f7fb;} .header{background:#111827;color:#fff;padding:10px 14px;} .header a{color:#a7f3d0;text-decoration:none} .container{max-width:900px;margin:18px auto;background:#fff;border-radius:12px;padding:18px 20px;box-shadow:0 10px 30px rgba(0,0,0,.06)}`

// Render produces a complete HTML document for one content item. The note
// type escapes the body as literal text and relies on pre-wrap for line
// breaks; every other type embeds the raw HTML body as-is.
func Render(contentType, title, student, date, body string) string {
	backlink := fmt.Sprintf("../../../index.html?student=%s&date=%s",
		url.QueryEscape(student), url.QueryEscape(date))

	if contentType == manifest.NoteType {
		if title == "" {
			title = "提醒"
		}
		return fmt.Sprintf(`<!doctype html><html lang="zh-Hant"><head><meta charset="utf-8"/>
<meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>%s</title>
<style>%s</style>
</head><body>
<div class="header">← <a href="%s">返回日曆</a></div>
<div class="container">
<div class="tag">📌 提醒</div>
<h1 style="margin:6px 0 12px">%s</h1>
<div class="note">%s</div>
</div></body></html>`,
			html.EscapeString(title), noteStyle, backlink,
			html.EscapeString(title), html.EscapeString(body))
	}

	return fmt.Sprintf(`<!doctype html><html lang="zh-Hant"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>%s</title>
<style>%s</style>
</head><body>
<div class="header">← <a href="%s">返回日曆</a></div>
<div class="container"><h1>%s</h1>%s</div>
</body></html>`,
		html.EscapeString(title), lessonStyle, backlink,
		html.EscapeString(title), body)
}

// ExtractBody recovers the editable body from a stored document. For the
// note type this is the unescaped text of the note block; otherwise the
// container's inner HTML with the heading stripped, falling back to the
// document body when no container is present.
func ExtractBody(contentType, doc string) string {
	if contentType == manifest.NoteType {
		if m := notePattern.FindStringSubmatch(doc); m != nil {
			return strings.TrimSpace(html.UnescapeString(m[1]))
		}
		return ""
	}
	if m := containerPattern.FindStringSubmatch(doc); m != nil {
		inner := h1Pattern.ReplaceAllString(m[1], "")
		return strings.TrimSpace(inner)
	}
	if m := bodyPattern.FindStringSubmatch(doc); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(doc)
}
