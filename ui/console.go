// Package ui renders query results of the chat service as text.
// It only reads what it is given and never modifies chat state.
package ui

import (
	"chat-store/domain/chat"
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var titleStyle = color.New(color.FgCyan, color.OpBold)

type Console struct {
	out     io.Writer
	colours bool
}

func NewConsole(out io.Writer, config Config) *Console {
	return &Console{out: out, colours: config.Colours}
}

func (c *Console) Title(text string) {
	if c.colours {
		text = titleStyle.Render(text)
	}
	fmt.Fprintln(c.out, text)
}

// Companions prints user ids the way a list literal looks: [2 3]
func (c *Console) Companions(ids []chat.UserID) {
	fmt.Fprintln(c.out, ids)
}

func (c *Console) Count(n int) {
	fmt.Fprintln(c.out, n)
}

func (c *Console) Lines(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
}

// Messages prints one table row per message, oldest first.
func (c *Console) Messages(messages []chat.Message) {
	if len(messages) == 0 {
		fmt.Fprintln(c.out, chat.NoMessages)
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"ID", "From", "To", "Text", "Read"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.AppendBulk(lo.Map(messages, func(m chat.Message, _ int) []string {
		return []string{
			strconv.Itoa(int(m.ID)),
			strconv.Itoa(int(m.FromUserID)),
			strconv.Itoa(int(m.ToUserID)),
			m.Text,
			strconv.FormatBool(m.IsRead),
		}
	}))
	table.Render()
}
