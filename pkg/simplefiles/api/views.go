package api

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

const dateLayout = "2006-01-02"

// page wraps body in the shared HTML shell.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<nav><a href="/file/list">Files</a> | <a href="/file/form">Upload</a></nav>
<h1>%s</h1>
`, templ.EscapeString(title), templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// ListPage renders every record with a download link.
func ListPage(records []*simplefiles.FileRecord) templ.Component {
	return page("Files", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(records) == 0 {
			_, err := io.WriteString(w, "<p>No files yet.</p>\n")
			return err
		}
		if _, err := io.WriteString(w, "<table>\n<thead><tr><th>Title</th><th>Description</th><th>File</th><th>Created</th></tr></thead>\n<tbody>\n"); err != nil {
			return err
		}
		for _, record := range records {
			if _, err := fmt.Fprintf(w,
				"<tr><td>%s</td><td>%s</td><td><a href=\"/file/download?id=%s\">%s</a></td><td>%s</td></tr>\n",
				templ.EscapeString(record.Title),
				templ.EscapeString(record.Description),
				record.ID,
				templ.EscapeString(simplefiles.DisplayName(record.StoredName)),
				record.CreatedDate.Format(dateLayout),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	}))
}

// FormPage renders the upload form. A non-nil saved record is acknowledged above it.
func FormPage(saved *simplefiles.FileRecord) templ.Component {
	return page("Upload a file", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if saved != nil {
			if _, err := fmt.Fprintf(w, "<p class=\"saved\">Saved %s as %s.</p>\n",
				templ.EscapeString(saved.Title),
				templ.EscapeString(simplefiles.DisplayName(saved.StoredName))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<form method="post" action="/file/save" enctype="multipart/form-data">
<label>Title <input type="text" name="title"></label>
<label>Description <textarea name="description"></textarea></label>
<label>File <input type="file" name="upfile"></label>
<button type="submit">Save</button>
</form>
`)
		return err
	}))
}
