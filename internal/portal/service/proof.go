package service

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

type proofInput struct {
	ProductID string `validate:"required"`
	Amount    string `validate:"required"`
	FileSize  int    `validate:"gt=0"`
}

// ProofService uploads bank-transfer proofs.
type ProofService struct {
	API      API
	Messages Messages
	Logger   *slog.Logger
	Observer Observer
}

// Submit validates draft locally and, if complete, sends it as one multipart
// request. Incomplete drafts return a *ValidationError without touching the API;
// API failures return an *UploadError.
func (p *ProofService) Submit(ctx context.Context, token string, draft domain.UploadDraft) error {
	in := proofInput{ProductID: draft.ProductID, Amount: draft.Amount}
	if draft.File != nil {
		in.FileSize = len(draft.File.Data)
	}
	if err := validate.Struct(in); err != nil {
		p.Observer.ProofSubmitted("invalid")
		return &ValidationError{Message: p.Messages.ProofMissing, Fields: invalidFields(err)}
	}

	err := p.API.SubmitProof(ctx, token, portalsdk.SubmitPaymentRequest{
		ProductID:   draft.ProductID,
		Amount:      draft.Amount,
		FileName:    draft.File.Name,
		ContentType: draft.File.ContentType,
		File:        bytes.NewReader(draft.File.Data),
	})
	if err != nil {
		p.Observer.ProofSubmitted("failed")
		p.Logger.Error("proof upload failed",
			slogx.Err(err),
			"product_id", draft.ProductID,
			"size", len(draft.File.Data),
		)
		return &UploadError{Message: p.Messages.UploadFailed, Err: err}
	}

	p.Observer.ProofSubmitted("sent")
	p.Logger.Info("proof uploaded", "product_id", draft.ProductID, "size", len(draft.File.Data))
	return nil
}
