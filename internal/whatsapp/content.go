package whatsapp

// Content is the closed set of outbound message shapes the provider accepts.
// Each variant knows how to build its own request payload.
type Content interface {
	payload(to string) map[string]interface{}
}

const (
	maxButtons        = 3
	maxButtonTitleLen = 20
)

type TextContent struct {
	Body string
}

func (t TextContent) payload(to string) map[string]interface{} {
	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]interface{}{
			"body": t.Body,
		},
	}
}

type TemplateContent struct {
	Name         string
	LanguageCode string
	Components   []interface{}
}

func (t TemplateContent) payload(to string) map[string]interface{} {
	lang := t.LanguageCode
	if lang == "" {
		lang = "en"
	}
	components := t.Components
	if components == nil {
		components = []interface{}{}
	}
	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "template",
		"template": map[string]interface{}{
			"name":       t.Name,
			"language":   map[string]interface{}{"code": lang},
			"components": components,
		},
	}
}

type Button struct {
	ID    string
	Title string
}

type ButtonsContent struct {
	Body    string
	Buttons []Button
	Header  string
	Footer  string
}

func (b ButtonsContent) payload(to string) map[string]interface{} {
	buttons := b.Buttons
	if len(buttons) > maxButtons {
		buttons = buttons[:maxButtons]
	}
	btns := make([]interface{}, 0, len(buttons))
	for _, btn := range buttons {
		title := btn.Title
		// Titles over the provider cap are truncated, not rejected. The cap
		// counts characters, so cut on rune boundaries.
		if runes := []rune(title); len(runes) > maxButtonTitleLen {
			title = string(runes[:maxButtonTitleLen])
		}
		btns = append(btns, map[string]interface{}{
			"type": "reply",
			"reply": map[string]interface{}{
				"id":    btn.ID,
				"title": title,
			},
		})
	}

	interactive := map[string]interface{}{
		"type": "button",
		"body": map[string]interface{}{"text": b.Body},
		"action": map[string]interface{}{
			"buttons": btns,
		},
	}
	if b.Header != "" {
		interactive["header"] = map[string]interface{}{"type": "text", "text": b.Header}
	}
	if b.Footer != "" {
		interactive["footer"] = map[string]interface{}{"text": b.Footer}
	}

	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive":       interactive,
	}
}

type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

type ListContent struct {
	Body       string
	ButtonText string
	Sections   []Section
	Header     string
	Footer     string
}

func (l ListContent) payload(to string) map[string]interface{} {
	interactive := map[string]interface{}{
		"type": "list",
		"body": map[string]interface{}{"text": l.Body},
		"action": map[string]interface{}{
			"button":   l.ButtonText,
			"sections": l.Sections,
		},
	}
	if l.Header != "" {
		interactive["header"] = map[string]interface{}{"type": "text", "text": l.Header}
	}
	if l.Footer != "" {
		interactive["footer"] = map[string]interface{}{"text": l.Footer}
	}

	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive":       interactive,
	}
}
