package domain

// ForcedPayment is a product and amount fixed by a deep link (?pay=...&amount=...).
type ForcedPayment struct {
	ProductID string
	Amount    string
	Forced    bool
}

// ProofFile is the image evidencing a bank transfer.
type ProofFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadDraft is what the user has entered into the payment form so far.
type UploadDraft struct {
	ProductID string
	Amount    string
	File      *ProofFile
}

// HasFile reports whether a non-empty file is attached.
func (d UploadDraft) HasFile() bool {
	return d.File != nil && len(d.File.Data) > 0
}
