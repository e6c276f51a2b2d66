package hierarchy

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DocumentRecord is the persisted row of a page-tree document. Slugs live in
// DocumentSlugRecord, one row per locale.
type DocumentRecord struct {
	bun.BaseModel `bun:"table:pagetree_documents,alias:pd"`

	ID         uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	Collection string               `bun:"collection,notnull" json:"collection"`
	Tenant     string               `bun:"tenant,notnull" json:"tenant"`
	IsRootPage bool                 `bun:"is_root_page,notnull" json:"is_root_page"`
	ParentID   *uuid.UUID           `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Fields     map[string]Localized `bun:"fields,type:jsonb" json:"fields,omitempty"`
	CreatedAt  time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time            `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// DocumentSlugRecord stores the slug of a document in one locale. The
// unlocalized slug uses the empty locale.
type DocumentSlugRecord struct {
	bun.BaseModel `bun:"table:pagetree_document_slugs,alias:pds"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	DocumentID uuid.UUID `bun:"document_id,notnull,type:uuid" json:"document_id"`
	Locale     string    `bun:"locale,notnull" json:"locale"`
	Slug       string    `bun:"slug,notnull" json:"slug"`
}

func toRecord(doc *Document) *DocumentRecord {
	record := &DocumentRecord{
		ID:         doc.ID,
		Collection: doc.Collection,
		Tenant:     doc.Tenant,
		IsRootPage: doc.IsRootPage,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.HasParent() {
		parent := *doc.ParentID
		record.ParentID = &parent
	}
	if len(doc.Fields) > 0 {
		record.Fields = doc.Clone().Fields
	}
	return record
}

func fromRecord(record *DocumentRecord, slugRows []*DocumentSlugRecord) *Document {
	doc := &Document{
		ID:         record.ID,
		Collection: record.Collection,
		Tenant:     record.Tenant,
		IsRootPage: record.IsRootPage,
		Slug:       Localized{},
		Fields:     make(map[string]Localized, len(record.Fields)),
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
	if record.ParentID != nil && *record.ParentID != uuid.Nil {
		parent := *record.ParentID
		doc.ParentID = &parent
	}
	for name, value := range record.Fields {
		doc.Fields[name] = value.Clone()
	}
	for _, row := range slugRows {
		doc.Slug[row.Locale] = row.Slug
	}
	return doc
}
