package events

import (
	"fmt"

	"docsync/internal/template"
)

// MessageTemplateEngine provides dynamic message generation for events.
type MessageTemplateEngine struct {
	engine    *template.Engine
	templates map[EventReason]string
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	return &MessageTemplateEngine{
		engine: template.New(),
		templates: map[EventReason]string{
			ReasonDocumentAdded:       "Document {{.ContextPath}} added{{if .ContextID}} (context {{.ContextID | trunc 12}}){{end}}",
			ReasonDocumentUpdated:     "Document {{.ContextPath}} updated{{if .ContextID}} (context {{.ContextID | trunc 12}}){{end}}",
			ReasonResolverUnavailable: "No {{.Kind}} resolver available for route {{.Name}}{{if .Error}}: {{.Error}}{{end}}",
			ReasonDocumentFetchFailed: "Failed to fetch document for {{.ContextPath}}{{if .Error}}: {{.Error}}{{end}}",
			ReasonStoreWriteFailed:    "Failed to store document {{.ContextPath}}{{if .Error}}: {{.Error}}{{end}}",
		},
	}
}

// SetTemplate overrides the message template for reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, tmpl string) {
	e.templates[reason] = tmpl
}

// Render renders the message for reason. Unknown reasons and broken
// templates fall back to a plain description.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	tmpl, ok := e.templates[reason]
	if !ok {
		return fallbackMessage(reason, data)
	}
	msg, err := e.engine.Render(tmpl, data)
	if err != nil {
		return fallbackMessage(reason, data)
	}
	return msg
}

func fallbackMessage(reason EventReason, data EventData) string {
	if data.Error != "" {
		return fmt.Sprintf("%s for route %s: %s", reason, data.Name, data.Error)
	}
	return fmt.Sprintf("%s for route %s", reason, data.Name)
}
