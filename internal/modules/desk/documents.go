package desk

import (
	"fmt"
	"net/url"

	"walkindesk/internal/modules/widget"
)

// DocumentLink is a document the agent's browser should open.
type DocumentLink struct {
	Kind widget.DocumentKind `json:"kind"`
	ID   string              `json:"id"`
	URL  string              `json:"url"`
}

// DocumentLinks renders document URLs from printf templates with one %s.
type DocumentLinks struct {
	registration string
	download     string
}

func NewDocumentLinks(registrationTemplate, downloadTemplate string) DocumentLinks {
	return DocumentLinks{registration: registrationTemplate, download: downloadTemplate}
}

func (l DocumentLinks) Link(d widget.Document) DocumentLink {
	tpl := l.download
	if d.Kind == widget.DocumentRegistrationForm {
		tpl = l.registration
	}
	return DocumentLink{Kind: d.Kind, ID: d.ID, URL: fmt.Sprintf(tpl, url.PathEscape(d.ID))}
}
