// Package slack builds Slack Block Kit messages and posts them to an
// incoming webhook.
package slack

import "encoding/json"

// Message is the top-level payload for chat.postMessage and incoming webhooks.
type Message struct {
	Text   string  `json:"text,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a layout block. reltool only emits rich_text blocks.
type Block struct {
	Type     string    `json:"type"`
	Elements []Element `json:"elements"`
}

// Element is a rich text element: section, list, text, link or emoji.
// Unused fields are omitted from the JSON.
type Element struct {
	Type string `json:"type"`

	// rich_text_list. Text elements use TextStyle instead; both are
	// encoded under the "style" key.
	Style  string `json:"style,omitempty"`
	Indent *int   `json:"indent,omitempty"`
	Border *int   `json:"border,omitempty"`

	// rich_text_section, rich_text_list
	Elements []Element `json:"elements,omitempty"`

	// text, link
	Text      string     `json:"text,omitempty"`
	TextStyle *TextStyle `json:"-"`

	// link
	URL string `json:"url,omitempty"`

	// emoji
	Name string `json:"name,omitempty"`
}

// TextStyle is the style object of a text element.
type TextStyle struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
	Code   bool `json:"code,omitempty"`
}

// RichText wraps elements in a rich_text block.
func RichText(elements ...Element) Block {
	return Block{Type: "rich_text", Elements: elements}
}

// Section groups inline elements.
func Section(elements ...Element) Element {
	return Element{Type: "rich_text_section", Elements: elements}
}

// BulletList is a rich_text_list with bullet style at the given indent.
func BulletList(indent int, items ...Element) Element {
	border := 0
	return Element{
		Type:     "rich_text_list",
		Style:    "bullet",
		Indent:   &indent,
		Border:   &border,
		Elements: items,
	}
}

// Text is a plain text element.
func Text(s string) Element {
	return Element{Type: "text", Text: s}
}

// BoldText is a bold text element.
func BoldText(s string) Element {
	return Element{Type: "text", Text: s, TextStyle: &TextStyle{Bold: true}}
}

// Link is a hyperlink element.
func Link(url, text string) Element {
	return Element{Type: "link", URL: url, Text: text}
}

// Emoji is an emoji element by short name, without colons.
func Emoji(name string) Element {
	return Element{Type: "emoji", Name: name}
}

// MarshalJSON writes Style or TextStyle as the "style" member.
func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	out := struct {
		plain
		Style interface{} `json:"style,omitempty"`
	}{plain: plain(e)}

	switch {
	case e.TextStyle != nil:
		out.Style = e.TextStyle
	case e.Style != "":
		out.Style = e.Style
	}
	return json.Marshal(out)
}
