package releasenote

import (
	"reltool/internal/slack"
)

// SlackMessage renders the release as Block Kit rich text: a version line
// headed by emoji, then one bullet per task with its notes nested below.
func (r Release) SlackMessage(emoji string) slack.Message {
	blocks := []slack.Block{
		slack.RichText(slack.Section(
			slack.Emoji(emoji),
			slack.Text(" "),
			slack.BoldText(r.Version),
		)),
	}
	for _, t := range r.Tasks {
		blocks = append(blocks, taskBlock(t))
	}
	return slack.Message{Blocks: blocks}
}

func taskBlock(t Task) slack.Block {
	lists := []slack.Element{
		slack.BulletList(0, slack.Section(
			slack.Text(t.Title+" ["),
			slack.Link(t.URL, "ClickUp"),
			slack.Text("]"),
		)),
	}
	if len(t.Messages) > 0 {
		items := make([]slack.Element, 0, len(t.Messages))
		for _, m := range t.Messages {
			items = append(items, messageSection(m))
		}
		lists = append(lists, slack.BulletList(1, items...))
	}
	return slack.RichText(lists...)
}

func messageSection(m Message) slack.Element {
	if m.CommitHash == "" {
		return slack.Section(slack.Text(m.Text))
	}
	return slack.Section(
		slack.Text(m.Text+" ("),
		slack.Link(m.CommitURL, "#"+m.ShortHash()),
		slack.Text(")"),
	)
}
