package portalsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// SubmitPayment uploads a bank-transfer proof as multipart/form-data with the fields
// product_id, amount and proof_file.
func (s *Session) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) error {
	if req.File == nil {
		return fmt.Errorf("proof file is required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("product_id", req.ProductID); err != nil {
		return fmt.Errorf("failed to encode product_id: %w", err)
	}
	if err := mw.WriteField("amount", req.Amount); err != nil {
		return fmt.Errorf("failed to encode amount: %w", err)
	}

	part, err := mw.CreatePart(proofPartHeader(req.FileName, req.ContentType))
	if err != nil {
		return fmt.Errorf("failed to create proof_file part: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return fmt.Errorf("failed to encode proof_file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/v1/payment/submit", &buf, map[string]string{
		"Content-Type": mw.FormDataContentType(),
	})
	if err != nil {
		return err
	}

	return checkStatus(resp)
}

func proofPartHeader(fileName, contentType string) textproto.MIMEHeader {
	if fileName == "" {
		fileName = "proof"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(fileName)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="proof_file"; filename="%s"`, quoted))
	h.Set("Content-Type", contentType)
	return h
}
