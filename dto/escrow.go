package dto

// Deposit is returned from CreateDeposit; the reference is handed to the
// payment gateway, which echoes it back on the confirmation callback.
type Deposit struct {
	TransactionID string `json:"transactionId"`
	Reference     string `json:"reference"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

type CreateDepositRequest struct {
	CompanyID    string `json:"companyId" binding:"required"`
	InternshipID string `json:"internshipId" binding:"required"`
	Amount       int64  `json:"amount" binding:"required"`
}

type ConfirmDepositRequest struct {
	Reference string `json:"reference" binding:"required"`
}

type ReleaseEscrowRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}
