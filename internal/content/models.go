package content

import (
	"encoding/json"
	"fmt"

	"github.com/insurancevn/insurancenews/internal/foundation/normalization"
)

// Article is the read model of a news article. The site never mutates it.
type Article struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Summary          string   `json:"summary" yaml:"summary"`
	Content          string   `json:"content" yaml:"content"`
	Slug             string   `json:"slug" yaml:"slug"`
	Author           string   `json:"author,omitempty" yaml:"author,omitempty"`
	PublishedAt      string   `json:"publishedAt" yaml:"published_at"`
	UpdatedAt        string   `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
	Category         string   `json:"category" yaml:"category"`
	CategoryName     string   `json:"categoryName" yaml:"category_name"`
	Tags             []string `json:"tags" yaml:"tags"`
	FeaturedImageURL string   `json:"featuredImageUrl,omitempty" yaml:"featured_image_url,omitempty"`
	ReadingTime      int      `json:"readingTime" yaml:"reading_time"`
	IsAIRewritten    bool     `json:"isAiRewritten" yaml:"is_ai_rewritten"`
	IsDisputable     bool     `json:"isDisputable" yaml:"is_disputable"`
	OriginalURL      string   `json:"originalUrl,omitempty" yaml:"original_url,omitempty"`
	OriginalSource   string   `json:"originalSource,omitempty" yaml:"original_source,omitempty"`
	ViewCount        int64    `json:"viewCount" yaml:"view_count"`
}

// HasAttribution reports whether both original URL and source are known.
func (a *Article) HasAttribution() bool {
	return a.OriginalURL != "" && a.OriginalSource != ""
}

// LegalStatus is the closed lifecycle set of a legal document.
type LegalStatus string

const (
	StatusActive  LegalStatus = "active"
	StatusExpired LegalStatus = "expired"
	StatusAmended LegalStatus = "amended"
	StatusDraft   LegalStatus = "draft"
)

var legalStatuses = normalization.NewEnum("legal status", map[string]LegalStatus{
	"active":  StatusActive,
	"expired": StatusExpired,
	"amended": StatusAmended,
	"draft":   StatusDraft,
})

// ParseLegalStatus normalizes raw into a LegalStatus.
func ParseLegalStatus(raw string) (LegalStatus, error) {
	return legalStatuses.Parse(raw)
}

// InForce reports whether the document currently applies.
func (s LegalStatus) InForce() bool { return s == StatusActive }

func (s *LegalStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("legal status: %w", err)
	}
	v, err := ParseLegalStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *LegalStatus) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v, err := ParseLegalStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Attachment is a downloadable file attached to a legal document. Size is
// display text such as "2.4 MB".
type Attachment struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Size string `json:"size" yaml:"size"`
}

// LegalDocument is a regulation, circular or decision. DocumentNumber is the
// route key.
type LegalDocument struct {
	ID               string       `json:"id" yaml:"id"`
	DocumentNumber   string       `json:"documentNumber" yaml:"document_number"`
	DocumentType     string       `json:"documentType" yaml:"document_type"`
	Title            string       `json:"title" yaml:"title"`
	Summary          string       `json:"summary" yaml:"summary"`
	Content          string       `json:"content" yaml:"content"`
	IssuingBody      string       `json:"issuingBody" yaml:"issuing_body"`
	IssueDate        string       `json:"issueDate" yaml:"issue_date"`
	EffectiveDate    string       `json:"effectiveDate" yaml:"effective_date"`
	ExpiryDate       string       `json:"expiryDate,omitempty" yaml:"expiry_date,omitempty"`
	Status           LegalStatus  `json:"status" yaml:"status"`
	Tags             []string     `json:"tags" yaml:"tags"`
	SourceURL        string       `json:"sourceUrl" yaml:"source_url"`
	Attachments      []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	RelatedDocuments []string     `json:"relatedDocuments,omitempty" yaml:"related_documents,omitempty"`
	ViewCount        int64        `json:"viewCount" yaml:"view_count"`
}

// UnmarshalJSON accepts the short docNumber/docType aliases used by the
// hero feed. A missing status is rejected like an unknown one.
func (d *LegalDocument) UnmarshalJSON(data []byte) error {
	type plain LegalDocument
	var wire struct {
		plain
		DocNumber string  `json:"docNumber"`
		DocType   string  `json:"docType"`
		RawStatus *string `json:"status"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.RawStatus == nil {
		return fmt.Errorf("legal document %q: missing status", wire.DocumentNumber+wire.DocNumber)
	}
	status, err := ParseLegalStatus(*wire.RawStatus)
	if err != nil {
		return err
	}

	*d = LegalDocument(wire.plain)
	d.Status = status
	if d.DocumentNumber == "" {
		d.DocumentNumber = wire.DocNumber
	}
	if d.DocumentType == "" {
		d.DocumentType = wire.DocType
	}
	return nil
}

// Category is a content section such as bao-hiem-nhan-tho.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder"`
}

// Company is an insurer profile.
type Company struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Type            string `json:"type,omitempty"`
	LogoURL         string `json:"logoUrl,omitempty"`
	Website         string `json:"website,omitempty"`
	Description     string `json:"description,omitempty"`
	EstablishedDate string `json:"establishedDate,omitempty"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
}
