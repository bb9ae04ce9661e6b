// Package transcript renders the message history of a ticket as a standalone HTML document.
package transcript

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Message is a chat message of a ticket.
type Message struct {
	AuthorID    string
	AuthorName  string
	Content     string
	Attachments []string
	Timestamp   time.Time
}

// Transcript is the history of a ticket.
type Transcript struct {
	Ticket *entities.Ticket

	// Messages in chronological order.
	Messages []Message

	Actions     []*entities.ActionLogEntry
	GeneratedAt time.Time
}

// FileName is the attachment name of the transcript.
func (t *Transcript) FileName() string {
	return fmt.Sprintf("transcript-%s.html", t.Ticket.Name())
}

var (
	markdown     goldmark.Markdown
	markdownOnce sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Linkify,
				extension.Table,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		)
	})
	return markdown
}

type messageView struct {
	AuthorID    string
	AuthorName  string
	Time        string
	Body        template.HTML
	Attachments []string
}

type actionView struct {
	Time     string
	Action   string
	Executor string
	Target   string
}

type documentView struct {
	Name      string
	Ticket    *entities.Ticket
	Opened    string
	Closed    string
	Generated string
	Messages  []messageView
	Actions   []actionView
}

const timeLayout = "2006-01-02 15:04:05 MST"

// Render renders the transcript. Message content is treated as markdown; raw HTML in a message
// is dropped.
func Render(t *Transcript) ([]byte, error) {
	if t == nil || t.Ticket == nil {
		return nil, fmt.Errorf("transcript has no ticket")
	}

	doc := documentView{
		Name:      t.Ticket.Name(),
		Ticket:    t.Ticket,
		Opened:    t.Ticket.CreatedAt.UTC().Format(timeLayout),
		Generated: t.GeneratedAt.UTC().Format(timeLayout),
		Messages:  make([]messageView, 0, len(t.Messages)),
		Actions:   make([]actionView, 0, len(t.Actions)),
	}
	if t.Ticket.ClosedAt != nil {
		doc.Closed = t.Ticket.ClosedAt.UTC().Format(timeLayout)
	}

	for _, m := range t.Messages {
		body := new(bytes.Buffer)
		if err := getMarkdown().Convert([]byte(m.Content), body); err != nil {
			return nil, fmt.Errorf("error rendering message: %w", err)
		}

		name := m.AuthorName
		if name == "" {
			name = m.AuthorID
		}
		// goldmark escapes text and omits raw HTML.
		doc.Messages = append(doc.Messages, messageView{
			AuthorID:    m.AuthorID,
			AuthorName:  name,
			Time:        m.Timestamp.UTC().Format(timeLayout),
			Body:        template.HTML(body.String()),
			Attachments: m.Attachments,
		})
	}

	for _, a := range t.Actions {
		doc.Actions = append(doc.Actions, actionView{
			Time:     a.Timestamp.UTC().Format(timeLayout),
			Action:   string(a.Action),
			Executor: a.ExecutorID,
			Target:   a.TargetID,
		})
	}

	out := new(bytes.Buffer)
	if err := page.Execute(out, doc); err != nil {
		return nil, fmt.Errorf("error executing transcript template: %w", err)
	}
	return out.Bytes(), nil
}

var page = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Name }}</title>
<style>
body { font-family: sans-serif; background: #313338; color: #dbdee1; margin: 2em; }
.meta, .time { color: #949ba4; font-size: 0.85em; }
.message { margin: 1em 0; }
.author { font-weight: bold; color: #f2f3f5; }
table { border-collapse: collapse; }
td, th { padding: 0.2em 0.8em; text-align: left; }
</style>
</head>
<body>
<h1>{{ .Name }}</h1>
<p class="meta">
Category: {{ .Ticket.Category }}<br>
Owner: {{ .Ticket.OwnerID }}<br>
{{- if .Ticket.ClaimedBy }}
Claimed by: {{ .Ticket.ClaimedBy }}<br>
{{- end }}
Opened: {{ .Opened }}<br>
{{- if .Closed }}
Closed: {{ .Closed }}<br>
{{- end }}
Generated: {{ .Generated }}
</p>
{{- if .Actions }}
<h2>Actions</h2>
<table>
<tr><th>Time</th><th>Action</th><th>By</th><th>Target</th></tr>
{{- range .Actions }}
<tr><td>{{ .Time }}</td><td>{{ .Action }}</td><td>{{ .Executor }}</td><td>{{ .Target }}</td></tr>
{{- end }}
</table>
{{- end }}
<h2>Messages</h2>
{{- range .Messages }}
<div class="message">
<span class="author" title="{{ .AuthorID }}">{{ .AuthorName }}</span> <span class="time">{{ .Time }}</span>
<div class="content">{{ .Body }}</div>
{{- range .Attachments }}
<div class="attachment"><a href="{{ . }}">{{ . }}</a></div>
{{- end }}
</div>
{{- else }}
<p>No messages.</p>
{{- end }}
</body>
</html>
`))
