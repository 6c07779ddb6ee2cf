package pages

import (
	"context"
	"html/template"
	"net/http"

	"github.com/insurancevn/insurancenews/internal/content"
	"github.com/insurancevn/insurancenews/internal/seo"
	"github.com/insurancevn/insurancenews/internal/vntext"
)

const notFoundLegalTitle = "Văn bản không tìm thấy | Insurance Vietnam"

// StatusBadge is the lifecycle pill of a legal document.
type StatusBadge struct {
	Status content.LegalStatus
	Text   string
}

var statusTexts = map[content.LegalStatus]string{
	content.StatusActive:  "Đang hiệu lực",
	content.StatusExpired: "Hết hiệu lực",
	content.StatusAmended: "Đã sửa đổi",
	content.StatusDraft:   "Dự thảo",
}

func statusBadge(s content.LegalStatus) StatusBadge {
	return StatusBadge{Status: s, Text: statusTexts[s]}
}

// LegalCard is a related-document entry in the sidebar.
type LegalCard struct {
	Number string
	Type   string
	Title  string
	Href   string
	Status StatusBadge
	Date   string
}

func legalCards(docs []content.LegalDocument) []LegalCard {
	cards := make([]LegalCard, len(docs))
	for i, d := range docs {
		cards[i] = LegalCard{
			Number: d.DocumentNumber,
			Type:   d.DocumentType,
			Title:  d.Title,
			Href:   "/legal-docs/" + d.DocumentNumber,
			Status: statusBadge(d.Status),
			Date:   vntext.FormatShortDateString(d.IssueDate),
		}
	}
	return cards
}

type LegalDocView struct {
	Doc         *content.LegalDocument
	Status      StatusBadge
	Badge       Badge
	IssueDate   string
	Effective   string
	Expiry      string
	Views       string
	Body        template.HTML
	Attachments []content.Attachment
	Related     []LegalCard
}

// LegalDocPage composes /legal-docs/{docNumber}.
func (c *Composer) LegalDocPage(ctx context.Context, docNumber string) (*Page, error) {
	res := c.source.LegalDocument(ctx, docNumber)
	if res.IsErr() {
		return c.NotFoundPage(notFoundLegalTitle, NotFoundView{
			Heading:  "Văn bản không tìm thấy",
			Message:  "Văn bản pháp luật bạn tìm kiếm không tồn tại hoặc đã bị gỡ bỏ.",
			BackHref: "/thu-vien",
			BackText: "Quay lại thư viện",
		})
	}
	d := res.Unwrap()

	related := c.source.RelatedDocuments(ctx, d.DocumentNumber)
	if related.IsErr() {
		c.fallback("related_docs", related.Error())
	}

	view := LegalDocView{
		Doc:         d,
		Status:      statusBadge(d.Status),
		Badge:       legalBadge,
		IssueDate:   vntext.FormatShortDateString(d.IssueDate),
		Effective:   vntext.FormatShortDateString(d.EffectiveDate),
		Views:       vntext.FormatCount(d.ViewCount),
		Body:        trusted(d.Content),
		Attachments: d.Attachments,
		Related:     legalCards(related.UnwrapOr(nil)),
	}
	if d.ExpiryDate != "" {
		view.Expiry = vntext.FormatShortDateString(d.ExpiryDate)
	}

	return c.finish(&Page{
		Name:   NameLegalDoc,
		Status: http.StatusOK,
		Meta:   c.site.LegalDocMetadata(d),
		Breadcrumbs: seo.Breadcrumbs(
			seo.Crumb{Name: "Thư viện pháp luật", URL: "/thu-vien"},
			seo.Crumb{Name: d.DocumentNumber, URL: "/legal-docs/" + d.DocumentNumber},
		),
		Body: view,
	}, c.site.LegislationSchema(d))
}
