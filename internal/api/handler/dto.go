package handler

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                   string `json:"id"`
	AccountID            string `json:"account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               string `json:"amount"`
	OpeningBalance       string `json:"opening_balance"`
	ClosingBalance       string `json:"closing_balance,omitempty"`
	Narration            string `json:"narration"`
	Type                 string `json:"type"`
	Currency             string `json:"currency"`
	Channel              string `json:"channel"`
	Status               string `json:"status"`
	Reference            string `json:"reference"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

// ShareReceiptRequest represents a request to mint a shareable receipt link
type ShareReceiptRequest struct {
	ExpirationHours int    `json:"expiration_hours" binding:"required,min=1,max=168"`
	RequestedBy     string `json:"requested_by" binding:"required"`
}

// SignedLinkResponse represents a shareable receipt link in API responses
type SignedLinkResponse struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	ShareableURL string `json:"shareable_url"`
	ExpiresAt    string `json:"expires_at"`
	CreatedAt    string `json:"created_at"`
	IsActive     bool   `json:"is_active"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
