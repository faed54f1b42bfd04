package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"log"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"sync"
	texttmpl "text/template"
)

// EmailService is any service that can send emails
type EmailService interface {
	// SendMessages sends messages concurrently
	SendMessages(messages ...*EmailMessage)
}

type Attachment struct {
	Content     *bytes.Buffer
	ContentType string
	Filename    string
}

type EmailMessage struct {
	To          []mail.Address
	Cc          []mail.Address
	Bcc         []mail.Address
	Subject     string
	BodyStr     string // simple text/plain, non-templated content
	Attachments []Attachment

	// templated contents
	TemplateName string // without ext
	TemplateData interface{}
	TextContent  string
	HTMLContent  string
}

type ContextData struct {
	FrontendBaseURL string
	Data            interface{}
}

// executable is satisfied by both text/template and html/template.
type executable interface {
	Execute(wr io.Writer, data interface{}) error
}

// templates maps template name to {ext: parsed template}.
var (
	templates map[string]map[string]executable
	tmplInit  sync.Once
)

func (m *EmailMessage) contextData() ContextData {
	return ContextData{
		FrontendBaseURL: Conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}
}

func (m *EmailMessage) render(ext string) (string, error) {
	entry, ok := templates[m.TemplateName]
	if !ok {
		return "", nil
	}
	tmpl, ok := entry[ext]
	if !ok {
		return "", nil
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.contextData()); err != nil {
		return "", err
	}
	return buff.String(), nil
}

// Render populates TextContent and HTMLContent. BodyStr takes
// precedence over the text template when set.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}
	tmplInit.Do(parseTemplates)

	if m.TextContent == "" {
		text, err := m.render(".txt")
		if err != nil {
			return err
		}
		m.TextContent = text
	}
	html, err := m.render(".gohtml")
	if err != nil {
		return err
	}
	m.HTMLContent = html
	return nil
}

// Attach base64-encodes r's content and adds it as an attachment. The
// content type is sniffed when not provided.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}

	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	encoder.Close()

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) AttachFile(path string, contentType ...string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Attach(f, filepath.Base(path), contentType...)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// parseTemplates loads every email template under assets/templates/email.
// Files prefixed with "_" are layout partials parsed alongside each
// template of the matching extension.
func parseTemplates() {
	templates = make(map[string]map[string]executable)

	dir := filepath.Join(Conf.WorkDir, "assets", "templates", "email")
	paths, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		log.Printf("core.parseTemplates: %v", err)
	}

	for _, path := range paths {
		fname := filepath.Base(path)
		ext := filepath.Ext(fname)
		if strings.HasPrefix(fname, "_") || (ext != ".txt" && ext != ".gohtml") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)

		tmpl, err := parseTemplate(dir, path, ext)
		if err != nil {
			log.Printf("core.parseTemplates: %v", err)
			continue
		}
		if templates[name] == nil {
			templates[name] = make(map[string]executable)
		}
		templates[name][ext] = tmpl
	}
}

func parseTemplate(dir, path, ext string) (executable, error) {
	base := filepath.Join(dir, "_base"+ext)
	strict := Conf.Debug || Conf.TestMode

	if ext == ".txt" {
		tmpl, err := texttmpl.ParseFiles(base, path)
		if err != nil {
			return nil, err
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		return tmpl, nil
	}
	tmpl, err := htmltmpl.ParseFiles(base, path)
	if err != nil {
		return nil, err
	}
	if strict {
		tmpl = tmpl.Option("missingkey=error")
	}
	return tmpl, nil
}
