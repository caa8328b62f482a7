package whatsapp

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func payloadButtons(t *testing.T, p map[string]interface{}) []interface{} {
	t.Helper()
	interactive := p["interactive"].(map[string]interface{})
	action := interactive["action"].(map[string]interface{})
	return action["buttons"].([]interface{})
}

func buttonTitle(t *testing.T, raw interface{}) string {
	t.Helper()
	btn := raw.(map[string]interface{})
	reply := btn["reply"].(map[string]interface{})
	return reply["title"].(string)
}

func TestButtonsContentTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 40)
	p := ButtonsContent{
		Body:    "body",
		Buttons: []Button{{ID: "a", Title: long}},
	}.payload("919800000001")

	title := buttonTitle(t, payloadButtons(t, p)[0])
	if len(title) != maxButtonTitleLen {
		t.Errorf("title length = %d, want %d", len(title), maxButtonTitleLen)
	}
}

func TestButtonsContentTruncatesOnRuneBoundaries(t *testing.T) {
	// 21 runes with multi-byte characters at the cut point.
	title := "Lehenga Collection 👗✨"
	p := ButtonsContent{
		Body:    "body",
		Buttons: []Button{{ID: "a", Title: title}},
	}.payload("919800000001")

	got := buttonTitle(t, payloadButtons(t, p)[0])
	if !utf8.ValidString(got) {
		t.Fatalf("truncated title %q is not valid UTF-8", got)
	}
	if n := utf8.RuneCountInString(got); n != maxButtonTitleLen {
		t.Errorf("rune count = %d, want %d", n, maxButtonTitleLen)
	}
	if got != "Lehenga Collection 👗" {
		t.Errorf("title = %q, want cut after the 20th rune", got)
	}
}

func TestButtonsContentCapsButtonCount(t *testing.T) {
	p := ButtonsContent{
		Body: "body",
		Buttons: []Button{
			{ID: "a", Title: "A"}, {ID: "b", Title: "B"},
			{ID: "c", Title: "C"}, {ID: "d", Title: "D"},
		},
	}.payload("919800000001")

	if got := len(payloadButtons(t, p)); got != maxButtons {
		t.Errorf("buttons = %d, want %d", got, maxButtons)
	}
}

func TestButtonsContentOmitsEmptyHeaderFooter(t *testing.T) {
	p := ButtonsContent{Body: "body", Buttons: []Button{{ID: "a", Title: "A"}}}.payload("919800000001")
	interactive := p["interactive"].(map[string]interface{})
	if _, ok := interactive["header"]; ok {
		t.Error("empty header should be omitted")
	}
	if _, ok := interactive["footer"]; ok {
		t.Error("empty footer should be omitted")
	}
}

func TestReminderOptionsOffersFixedChoices(t *testing.T) {
	opts := ReminderOptions("Priya")
	if len(opts.Buttons) != 3 {
		t.Fatalf("buttons = %d, want 3", len(opts.Buttons))
	}
	want := []string{"remind_7", "remind_15", "remind_21"}
	for i, b := range opts.Buttons {
		if b.ID != want[i] {
			t.Errorf("button %d id = %q, want %q", i, b.ID, want[i])
		}
	}
}

func TestProductMessagePersonalizes(t *testing.T) {
	msg := ProductMessage("Priya", "sarees", "https://shop.example.com/collections/sarees")
	if !strings.Contains(msg.Body, "Priya") || !strings.Contains(msg.Body, "sarees") {
		t.Errorf("body %q missing personalization", msg.Body)
	}
	if msg.Buttons[0].ID != ButtonViewCollection || msg.Buttons[1].ID != ButtonRemindLater {
		t.Errorf("unexpected button ids %q, %q", msg.Buttons[0].ID, msg.Buttons[1].ID)
	}
}

func TestCollectionLinkCarriesURL(t *testing.T) {
	msg := CollectionLink("sarees", "https://shop.example.com/collections/sarees")
	if !strings.Contains(msg.Body, "https://shop.example.com/collections/sarees") {
		t.Errorf("body %q missing product URL", msg.Body)
	}
	if msg.Buttons[0].ID != ButtonCheckout {
		t.Errorf("first button = %q, want checkout", msg.Buttons[0].ID)
	}
}
