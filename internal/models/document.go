package models

import (
	"encoding/base64"
	"strings"
	"time"
)

// DocumentType classifies export paperwork attached to an order.
type DocumentType string

const (
	DocInvoice      DocumentType = "invoice"
	DocPackingList  DocumentType = "packing_list"
	DocShippingDocs DocumentType = "shipping_docs"
	DocCertificate  DocumentType = "certificate"
	DocOther        DocumentType = "other"
)

// Label renders the type in display form ("packing_list" -> "PACKING LIST").
func (t DocumentType) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(t), "_", " "))
}

// Document is the listing shape returned by /orders/:id/documents. The file
// payload itself is fetched separately and only on demand.
type Document struct {
	ID           string       `json:"id"`
	OrderID      string       `json:"order_id"`
	DocumentType DocumentType `json:"document_type"`
	Filename     string       `json:"filename"`
	FileSize     int64        `json:"file_size"`
	MimeType     string       `json:"mime_type"`
	UploadedAt   time.Time    `json:"uploaded_at"`
	Description  string       `json:"description,omitempty"`

	// OrderNumber is attached portal-side when documents are aggregated
	// across orders; the backend does not include it.
	OrderNumber string `json:"-"`
}

// SizeKB renders the file size the way the portal displays it.
func (d Document) SizeKB() float64 {
	return float64(d.FileSize) / 1024
}

// DocumentPayload is the download shape returned by /documents/:id.
type DocumentPayload struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"` // base64
	MimeType string `json:"mime_type"`
}

// Bytes decodes the base64 payload.
func (p DocumentPayload) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.FileData)
}
