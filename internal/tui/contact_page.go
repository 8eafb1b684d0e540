package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/aib-club/internal/contact"
	"github.com/kingrea/aib-club/internal/logbook"
	"github.com/kingrea/aib-club/internal/site"
)

const (
	focusName = iota
	focusEmail
	focusMessage
	fieldCount
)

type submitResultMsg struct {
	id      int
	receipt contact.Receipt
	err     error
}

// contactPage hosts the contact form and the club's social channels.
type contactPage struct {
	meta      site.Page
	ctx       context.Context
	submitter *contact.Submitter
	logbook   *logbook.Logbook

	name    textinput.Model
	email   textinput.Model
	message textarea.Model
	focused int

	fieldErrs contact.FieldErrors
	sending   bool
	requestID int
	status    string
	receipt   *contact.Receipt
}

func newContactPage(ctx context.Context, meta site.Page, submitter *contact.Submitter, lb *logbook.Logbook) *contactPage {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 100
	email := textinput.New()
	email.Placeholder = "your.email@iu.edu"
	email.CharLimit = 254
	message := textarea.New()
	message.Placeholder = "Tell us what you're interested in..."
	message.CharLimit = 2000
	message.ShowLineNumbers = false
	message.SetHeight(5)
	return &contactPage{
		meta:      meta,
		ctx:       ctx,
		submitter: submitter,
		logbook:   lb,
		name:      name,
		email:     email,
		message:   message,
		fieldErrs: contact.FieldErrors{},
	}
}

func (p *contactPage) editable() bool { return true }

func (p *contactPage) focus() tea.Cmd {
	p.blur()
	switch p.focused {
	case focusEmail:
		return p.email.Focus()
	case focusMessage:
		return p.message.Focus()
	default:
		return p.name.Focus()
	}
}

func (p *contactPage) blur() {
	p.name.Blur()
	p.email.Blur()
	p.message.Blur()
}

func (p *contactPage) resize(width int) {
	p.message.SetWidth(max(20, min(width-4, 72)))
}

func (p *contactPage) form() contact.Form {
	return contact.Form{
		Name:    p.name.Value(),
		Email:   p.email.Value(),
		Message: p.message.Value(),
	}
}

func (p *contactPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case submitResultMsg:
		if msg.id != p.requestID {
			return nil
		}
		p.sending = false
		if msg.err != nil {
			var verr *contact.ValidationError
			if errors.As(msg.err, &verr) {
				p.fieldErrs = verr.Fields
			}
			p.status = contact.UserMessage(msg.err)
			if errors.Is(msg.err, contact.ErrDelivery) {
				p.logbook.Error("Contact delivery failed: %v", msg.err)
			} else {
				p.logbook.Warn("Contact submission failed: %v", msg.err)
			}
			return nil
		}
		receipt := msg.receipt
		p.receipt = &receipt
		p.status = ""
		p.name.Reset()
		p.email.Reset()
		p.message.Reset()
		p.logbook.Info("Contact message sent · ref %s", receipt.Reference)
		return nil
	case tea.KeyMsg:
		if p.sending {
			return nil
		}
		switch msg.String() {
		case "ctrl+s":
			return p.submit()
		case "tab":
			p.focused = (p.focused + 1) % fieldCount
			return p.focus()
		case "shift+tab":
			p.focused = (p.focused + fieldCount - 1) % fieldCount
			return p.focus()
		case "enter":
			if p.focused != focusMessage {
				p.focused++
				return p.focus()
			}
		}
		return p.edit(msg)
	}
	return nil
}

// edit forwards a key to the focused field and clears that field's error.
func (p *contactPage) edit(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focused {
	case focusName:
		p.name, cmd = p.name.Update(msg)
		delete(p.fieldErrs, contact.FieldName)
	case focusEmail:
		p.email, cmd = p.email.Update(msg)
		delete(p.fieldErrs, contact.FieldEmail)
	case focusMessage:
		p.message, cmd = p.message.Update(msg)
		delete(p.fieldErrs, contact.FieldMessage)
	}
	return cmd
}

// submit validates locally and only reaches the network for a valid form.
func (p *contactPage) submit() tea.Cmd {
	p.status = ""
	p.receipt = nil
	form := p.form()
	if errs := form.Validate(); len(errs) > 0 {
		p.fieldErrs = errs
		return nil
	}
	p.fieldErrs = contact.FieldErrors{}
	p.sending = true
	p.requestID++
	id, ctx, submitter := p.requestID, p.ctx, p.submitter
	return func() tea.Msg {
		receipt, err := submitter.Submit(ctx, form)
		return submitResultMsg{id: id, receipt: receipt, err: err}
	}
}

func (p *contactPage) view(width int) string {
	text := lipgloss.NewStyle().Width(max(20, width))

	sections := []string{
		headingStyle.Render(strings.ToUpper(p.meta.Title)),
		text.Render(subtleStyle.Render(p.meta.Blurb)),
		"",
		accentStyle.Render("Get Involved"),
	}
	for _, s := range site.Socials {
		sections = append(sections, "  "+s.Label+"  "+linkStyle.Render(s.URL))
	}

	sections = append(sections, "", accentStyle.Render("Send us a Message"))
	if p.receipt != nil {
		sections = append(sections, okCardStyle.Render(
			successStyle.Bold(true).Render("Message sent!")+"\n"+
				"We'll get back to you soon.\n"+
				mutedStyle.Render("Reference "+p.receipt.Reference)))
	}
	if p.status != "" {
		sections = append(sections, errorCardStyle.Render(errorStyle.Render(p.status)))
	}

	sections = append(sections,
		p.renderField("Name", p.name.View(), contact.FieldName),
		p.renderField("Email", p.email.View(), contact.FieldEmail),
		p.renderField("Message", p.message.View(), contact.FieldMessage),
	)
	hint := "tab next field · ctrl+s send"
	if p.sending {
		hint = "Sending..."
	}
	sections = append(sections, mutedStyle.Render(hint))
	return strings.Join(sections, "\n")
}

func (p *contactPage) renderField(label, input, field string) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(label), input}
	if msg, ok := p.fieldErrs[field]; ok {
		lines = append(lines, errorStyle.Render(msg))
	}
	return strings.Join(lines, "\n")
}
