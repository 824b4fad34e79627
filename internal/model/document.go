package model

import "time"

// Типы загружаемых документов.
const (
	DocumentPDF   = "pdf"
	DocumentImage = "image"
	DocumentText  = "text"
)

// Статусы обработки документа. Переход только Processing -> Processed.
const (
	StatusProcessing = "Processing"
	StatusProcessed  = "Processed"
)

// Document — загруженный пользователем учебный материал (только метаданные).
type Document struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Title  string `gorm:"not null" json:"title"`
	Type   string `gorm:"not null" json:"type"`
	Icon   string `gorm:"not null" json:"icon"`
	Pages  int    `gorm:"not null" json:"pages"`
	Status string `gorm:"not null" json:"status"`

	UploadedAt time.Time `gorm:"not null;index" json:"uploadedAt"`
}

// IconFor возвращает иконку для типа документа.
func IconFor(docType string) string {
	switch docType {
	case DocumentPDF:
		return "file-pdf"
	case DocumentImage:
		return "file-image"
	default:
		return "file-alt"
	}
}

// ValidDocumentType сообщает, поддерживается ли тип документа.
func ValidDocumentType(docType string) bool {
	return docType == DocumentPDF || docType == DocumentImage || docType == DocumentText
}
