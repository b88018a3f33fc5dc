package bankproduct

// BankProduct is a product offered by the bank. The ID is assigned by the
// store on insert and never changes afterwards. A nil Title and an empty
// Title are both valid and are kept distinct.
type BankProduct struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
}

// Input is the client payload for create and update requests. ID is accepted
// on the wire but never used.
type Input struct {
	ID    *int64  `json:"id"`
	Title *string `json:"title"`
}

// New returns an unsaved product with the given title.
func New(title string) BankProduct {
	return BankProduct{Title: &title}
}

// FromInput builds an unsaved product from a request payload, dropping any
// client supplied ID.
func FromInput(in Input) BankProduct {
	return BankProduct{Title: copyTitle(in.Title)}
}

// Clone returns a copy that shares no memory with p.
func (p BankProduct) Clone() BankProduct {
	p.Title = copyTitle(p.Title)
	return p
}

// TitleValue returns the title or "" when it is null.
func (p BankProduct) TitleValue() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

// Merge applies an update payload to an existing product. Only the title is
// replaced; the ID always comes from existing.
func Merge(existing BankProduct, in Input) BankProduct {
	merged := existing.Clone()
	merged.Title = copyTitle(in.Title)
	return merged
}

// StringPtr is a convenience for building titles in literals.
func StringPtr(s string) *string {
	return &s
}

func copyTitle(title *string) *string {
	if title == nil {
		return nil
	}
	v := *title
	return &v
}
