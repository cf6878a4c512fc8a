package models

import "strings"

// DocumentKind is the declared format of an uploaded resume.
type DocumentKind string

const (
	KindPDF         DocumentKind = "pdf"
	KindDOCX        DocumentKind = "docx"
	KindUnsupported DocumentKind = ""
)

// ExtractionStatus tells an empty document apart from one that could not be read.
type ExtractionStatus string

const (
	ExtractionOK          ExtractionStatus = "ok"
	ExtractionEmpty       ExtractionStatus = "empty"
	ExtractionFailed      ExtractionStatus = "failed"
	ExtractionUnsupported ExtractionStatus = "unsupported"
)

type ExtractionResult struct {
	Text      string
	Status    ExtractionStatus
	Err       error
	PageCount int
}

// ResumeDocument is one candidate's resume as read for a single match request.
type ResumeDocument struct {
	Name   string
	Text   string
	Status ExtractionStatus
	Err    error
}

func NewResumeDocument(name string, res ExtractionResult) ResumeDocument {
	return ResumeDocument{
		Name:   name,
		Text:   res.Text,
		Status: res.Status,
		Err:    res.Err,
	}
}

// IsBlank reports whether the resume has no scorable text.
func (d ResumeDocument) IsBlank() bool {
	return strings.TrimSpace(d.Text) == ""
}
