package model

import "time"

type ProviderStatus string

const (
	ProviderPending  ProviderStatus = "pending"
	ProviderApproved ProviderStatus = "approved"
	ProviderRejected ProviderStatus = "rejected"
)

// ProviderProfile mirrors 'provider_profiles'; one row per provider user.
type ProviderProfile struct {
	ID                string         `db:"id"`
	UserID            string         `db:"user_id"`
	BusinessName      string         `db:"business_name"`
	ContactName       string         `db:"contact_name"`
	Phone             string         `db:"phone"`
	Address           string         `db:"address"`
	City              string         `db:"city"`
	State             string         `db:"state"`
	ZipCode           string         `db:"zip_code"`
	BusinessType      string         `db:"business_type"` // individual | company | ""
	TaxID             string         `db:"tax_id"`
	BankAccountLast4  string         `db:"bank_account_last4"`
	PayoutMethod      string         `db:"payout_method"`
	Status            ProviderStatus `db:"status"`
	VerificationNotes *string        `db:"verification_notes"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}
