package service

import (
	"context"
	"encoding/json"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

// draftRecord is the tab storage form of a draft kept after a failed upload.
type draftRecord struct {
	ProductID   string `json:"product_id"`
	Amount      string `json:"amount"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	File        []byte `json:"file,omitempty"`
}

func (d *Dashboard) saveDraft(ctx context.Context, draft domain.UploadDraft) {
	rec := draftRecord{ProductID: draft.ProductID, Amount: draft.Amount}
	if draft.File != nil {
		rec.FileName = draft.File.Name
		rec.ContentType = draft.File.ContentType
		rec.File = draft.File.Data
	}

	b, err := json.Marshal(rec)
	if err != nil {
		d.log.Warn("failed to encode upload draft", slogx.Err(err))
		return
	}
	if err := d.env.Tab().Set(ctx, KeyUploadDraft, string(b)); err != nil {
		d.log.Warn("failed to store upload draft", slogx.Err(err))
	}
}

func (d *Dashboard) loadDraft(ctx context.Context) *domain.UploadDraft {
	raw, ok, err := d.env.Tab().Get(ctx, KeyUploadDraft)
	if err != nil {
		d.log.Warn("failed to read upload draft", slogx.Err(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var rec draftRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		d.log.Warn("dropping unreadable upload draft", slogx.Err(err))
		d.clearDraft(ctx)
		return nil
	}

	draft := &domain.UploadDraft{ProductID: rec.ProductID, Amount: rec.Amount}
	if len(rec.File) > 0 {
		draft.File = &domain.ProofFile{Name: rec.FileName, ContentType: rec.ContentType, Data: rec.File}
	}
	return draft
}

func (d *Dashboard) clearDraft(ctx context.Context) {
	if err := d.env.Tab().Delete(ctx, KeyUploadDraft); err != nil {
		d.log.Warn("failed to delete upload draft", slogx.Err(err))
	}
}
