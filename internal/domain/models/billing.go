// internal/domain/models/billing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed lengths of Indian tax identifiers.
const (
	GSTINLength = 15
	PANLength   = 10
)

// BankAccount is owned by exactly one BillingDetails record and has no
// lifecycle outside it.
type BankAccount struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	AccountNumber      string             `bson:"account_number" json:"account_number"`
	IFSCCode           string             `bson:"ifsc_code" json:"ifsc_code"`
	AccountHolderName  string             `bson:"account_holder_name" json:"account_holder_name"`
	BankName           string             `bson:"bank_name" json:"bank_name"`
	BranchName         string             `bson:"branch_name,omitempty" json:"branch_name,omitempty"`
	IsDefault          bool               `bson:"is_default" json:"is_default"`
	IsVerified         bool               `bson:"is_verified" json:"is_verified"`
	CancelledChequeURL string             `bson:"cancelled_cheque_url,omitempty" json:"cancelled_cheque_url,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// BankAccountInput is the caller-supplied part of a new bank account.
type BankAccountInput struct {
	AccountNumber      string `json:"account_number" validate:"required,max=34" label:"Account number"`
	IFSCCode           string `json:"ifsc_code" validate:"required,max=11" label:"IFSC code"`
	AccountHolderName  string `json:"account_holder_name" validate:"required,max=200" label:"Account holder name"`
	BankName           string `json:"bank_name" validate:"required,max=200" label:"Bank name"`
	BranchName         string `json:"branch_name" validate:"max=200" label:"Branch name"`
	IsDefault          bool   `json:"is_default"`
	CancelledChequeURL string `json:"cancelled_cheque_url" validate:"omitempty,httpurl" label:"Cancelled cheque URL"`
}

// BankAccountPatch is a partial bank account update. Nil fields are left alone.
type BankAccountPatch struct {
	AccountNumber      *string `json:"account_number" validate:"omitempty,min=1,max=34" label:"Account number"`
	IFSCCode           *string `json:"ifsc_code" validate:"omitempty,min=1,max=11" label:"IFSC code"`
	AccountHolderName  *string `json:"account_holder_name" validate:"omitempty,min=1,max=200" label:"Account holder name"`
	BankName           *string `json:"bank_name" validate:"omitempty,min=1,max=200" label:"Bank name"`
	BranchName         *string `json:"branch_name" validate:"omitempty,max=200" label:"Branch name"`
	IsDefault          *bool   `json:"is_default"`
	IsVerified         *bool   `json:"is_verified"`
	CancelledChequeURL *string `json:"cancelled_cheque_url" validate:"omitempty,httpurl" label:"Cancelled cheque URL"`
}

// BillingDetails is the aggregate root for a party's tax identity and bank
// accounts. Bank accounts are only changed through its methods, which keep
// exactly one default account whenever the list is non-empty.
//
// Version increments on every persisted change; the store uses it as the
// condition of each replace so concurrent writers cannot interleave.
type BillingDetails struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PartyLegalName     string             `bson:"party_legal_name" json:"party_legal_name"`
	IsGSTApplicable    bool               `bson:"is_gst_applicable" json:"is_gst_applicable"`
	GSTIN              string             `bson:"gstin,omitempty" json:"gstin,omitempty"`
	PANCard            string             `bson:"pan_card" json:"pan_card"`
	State              string             `bson:"state" json:"state"`
	City               string             `bson:"city" json:"city"`
	Address            string             `bson:"address" json:"address"`
	Pincode            string             `bson:"pincode" json:"pincode"`
	IsIndividual       bool               `bson:"is_individual" json:"is_individual"`
	IsPANCardVerified  bool               `bson:"is_pancard_verified" json:"is_pancard_verified"`
	IsGSTVerified      bool               `bson:"is_gst_verified" json:"is_gst_verified"`
	IsMSME             bool               `bson:"is_msme" json:"is_msme"`
	GSTCertificateURL  string             `bson:"gst_certificate_url,omitempty" json:"gst_certificate_url,omitempty"`
	MSMECertificateURL string             `bson:"msme_certificate_url,omitempty" json:"msme_certificate_url,omitempty"`
	PANCardURL         string             `bson:"pan_card_url,omitempty" json:"pan_card_url,omitempty"`
	BankAccounts       []BankAccount      `bson:"bank_accounts" json:"bank_accounts"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	Version   int64              `bson:"version" json:"-"`
}

// BillingInput is the caller-supplied part of a new billing record.
type BillingInput struct {
	PartyLegalName     string             `json:"party_legal_name" validate:"required,max=300" label:"Party legal name"`
	IsGSTApplicable    bool               `json:"is_gst_applicable"`
	GSTIN              string             `json:"gstin"`
	PANCard            string             `json:"pan_card"`
	State              string             `json:"state" validate:"required,max=100" label:"State"`
	City               string             `json:"city" validate:"required,max=100" label:"City"`
	Address            string             `json:"address" validate:"required,max=500" label:"Address"`
	Pincode            string             `json:"pincode" validate:"required,max=10" label:"Pincode"`
	IsIndividual       *bool              `json:"is_individual"`
	IsPANCardVerified  bool               `json:"is_pancard_verified"`
	IsGSTVerified      bool               `json:"is_gst_verified"`
	IsMSME             bool               `json:"is_msme"`
	GSTCertificateURL  string             `json:"gst_certificate_url" validate:"omitempty,httpurl" label:"GST certificate URL"`
	MSMECertificateURL string             `json:"msme_certificate_url" validate:"omitempty,httpurl" label:"MSME certificate URL"`
	PANCardURL         string             `json:"pan_card_url" validate:"omitempty,httpurl" label:"PAN card URL"`
	BankAccounts       []BankAccountInput `json:"bank_accounts" validate:"dive"`
}

// BillingPatch is a partial billing update. Nil fields are left alone and
// the bank account list is never touched here.
type BillingPatch struct {
	PartyLegalName     *string `json:"party_legal_name" validate:"omitempty,min=1,max=300" label:"Party legal name"`
	IsGSTApplicable    *bool   `json:"is_gst_applicable"`
	GSTIN              *string `json:"gstin"`
	PANCard            *string `json:"pan_card"`
	State              *string `json:"state" validate:"omitempty,max=100" label:"State"`
	City               *string `json:"city" validate:"omitempty,max=100" label:"City"`
	Address            *string `json:"address" validate:"omitempty,max=500" label:"Address"`
	Pincode            *string `json:"pincode" validate:"omitempty,max=10" label:"Pincode"`
	IsIndividual       *bool   `json:"is_individual"`
	IsPANCardVerified  *bool   `json:"is_pancard_verified"`
	IsGSTVerified      *bool   `json:"is_gst_verified"`
	IsMSME             *bool   `json:"is_msme"`
	GSTCertificateURL  *string `json:"gst_certificate_url" validate:"omitempty,httpurl" label:"GST certificate URL"`
	MSMECertificateURL *string `json:"msme_certificate_url" validate:"omitempty,httpurl" label:"MSME certificate URL"`
	PANCardURL         *string `json:"pan_card_url" validate:"omitempty,httpurl" label:"PAN card URL"`
}

// NewBillingDetails validates in and builds a new record owned by owner.
// When accounts are supplied, the first one flagged default (or the first
// one, if none is flagged) becomes the only default.
func NewBillingDetails(in BillingInput, owner primitive.ObjectID, now time.Time) (BillingDetails, error) {
	b := BillingDetails{
		ID:                 primitive.NewObjectID(),
		PartyLegalName:     in.PartyLegalName,
		IsGSTApplicable:    in.IsGSTApplicable,
		GSTIN:              in.GSTIN,
		PANCard:            in.PANCard,
		State:              in.State,
		City:               in.City,
		Address:            in.Address,
		Pincode:            in.Pincode,
		IsIndividual:       true,
		IsPANCardVerified:  in.IsPANCardVerified,
		IsGSTVerified:      in.IsGSTVerified,
		IsMSME:             in.IsMSME,
		GSTCertificateURL:  in.GSTCertificateURL,
		MSMECertificateURL: in.MSMECertificateURL,
		PANCardURL:         in.PANCardURL,
		BankAccounts:       make([]BankAccount, 0, len(in.BankAccounts)),
		CreatedBy:          owner,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.IsIndividual != nil {
		b.IsIndividual = *in.IsIndividual
	}
	if err := b.checkInvariants(); err != nil {
		return BillingDetails{}, err
	}

	def := -1
	for i, a := range in.BankAccounts {
		b.BankAccounts = append(b.BankAccounts, newBankAccount(a, now))
		if a.IsDefault && def < 0 {
			def = i
		}
	}
	if len(b.BankAccounts) > 0 {
		if def < 0 {
			def = 0
		}
		b.markDefault(def)
	}
	return b, nil
}

func newBankAccount(in BankAccountInput, now time.Time) BankAccount {
	return BankAccount{
		ID:                 primitive.NewObjectID(),
		AccountNumber:      in.AccountNumber,
		IFSCCode:           in.IFSCCode,
		AccountHolderName:  in.AccountHolderName,
		BankName:           in.BankName,
		BranchName:         in.BranchName,
		CancelledChequeURL: in.CancelledChequeURL,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// checkInvariants validates the record-level tax and MSME rules.
func (b *BillingDetails) checkInvariants() error {
	if len(b.PANCard) != PANLength {
		return ErrInvalidPAN
	}
	if b.GSTIN != "" {
		if !b.IsGSTApplicable {
			return ErrGSTINWithoutGST
		}
		if len(b.GSTIN) != GSTINLength {
			return ErrInvalidGSTIN
		}
	}
	if b.IsMSME && b.MSMECertificateURL == "" {
		return ErrMSMECertificateRequired
	}
	if b.IsGSTVerified && b.GSTIN == "" {
		return ErrGSTINMissing
	}
	if b.IsPANCardVerified && b.PANCard == "" {
		return ErrPANMissing
	}
	return nil
}

// DefaultCount returns how many accounts are flagged default.
func (b *BillingDetails) DefaultCount() int {
	n := 0
	for _, a := range b.BankAccounts {
		if a.IsDefault {
			n++
		}
	}
	return n
}

// DefaultAccount returns the current default account, if any.
func (b *BillingDetails) DefaultAccount() (BankAccount, bool) {
	for _, a := range b.BankAccounts {
		if a.IsDefault {
			return a, true
		}
	}
	return BankAccount{}, false
}

func (b *BillingDetails) accountIndex(id primitive.ObjectID) int {
	for i, a := range b.BankAccounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// markDefault flags idx as the only default.
func (b *BillingDetails) markDefault(idx int) {
	for i := range b.BankAccounts {
		b.BankAccounts[i].IsDefault = i == idx
	}
}

// AddBankAccount appends a new unverified account and returns its id. The
// account becomes the only default when it asks to be, or when it is the
// first account on the record.
func (b *BillingDetails) AddBankAccount(in BankAccountInput, now time.Time) primitive.ObjectID {
	acct := newBankAccount(in, now)
	b.BankAccounts = append(b.BankAccounts, acct)
	last := len(b.BankAccounts) - 1
	if in.IsDefault || last == 0 || b.DefaultCount() == 0 {
		b.markDefault(last)
	}
	b.UpdatedAt = now
	return acct.ID
}

// UpdateBankAccount applies the set fields of p to the account with id.
// Setting is_default=true clears every sibling. Clearing the flag on the
// current default hands it to the first other account; a sole account
// stays default.
func (b *BillingDetails) UpdateBankAccount(id primitive.ObjectID, p BankAccountPatch, now time.Time) error {
	idx := b.accountIndex(id)
	if idx < 0 {
		return ErrBankAccountNotFound
	}
	a := &b.BankAccounts[idx]
	if p.AccountNumber != nil {
		a.AccountNumber = *p.AccountNumber
	}
	if p.IFSCCode != nil {
		a.IFSCCode = *p.IFSCCode
	}
	if p.AccountHolderName != nil {
		a.AccountHolderName = *p.AccountHolderName
	}
	if p.BankName != nil {
		a.BankName = *p.BankName
	}
	if p.BranchName != nil {
		a.BranchName = *p.BranchName
	}
	if p.IsVerified != nil {
		a.IsVerified = *p.IsVerified
	}
	if p.CancelledChequeURL != nil {
		a.CancelledChequeURL = *p.CancelledChequeURL
	}
	a.UpdatedAt = now

	if p.IsDefault != nil {
		switch {
		case *p.IsDefault:
			b.markDefault(idx)
		case a.IsDefault && len(b.BankAccounts) > 1:
			next := 0
			if idx == 0 {
				next = 1
			}
			b.markDefault(next)
		}
	}
	b.UpdatedAt = now
	return nil
}

// RemoveBankAccount deletes the account with id. The last account can never
// be removed. When the default goes, the first remaining account takes over.
func (b *BillingDetails) RemoveBankAccount(id primitive.ObjectID, now time.Time) error {
	idx := b.accountIndex(id)
	if idx < 0 {
		return ErrBankAccountNotFound
	}
	if len(b.BankAccounts) == 1 {
		return ErrLastBankAccount
	}
	wasDefault := b.BankAccounts[idx].IsDefault
	b.BankAccounts = append(b.BankAccounts[:idx:idx], b.BankAccounts[idx+1:]...)
	if wasDefault || b.DefaultCount() == 0 {
		b.markDefault(0)
	}
	b.UpdatedAt = now
	return nil
}

// SetDefaultBankAccount makes id the only default account.
func (b *BillingDetails) SetDefaultBankAccount(id primitive.ObjectID, now time.Time) error {
	idx := b.accountIndex(id)
	if idx < 0 {
		return ErrBankAccountNotFound
	}
	b.markDefault(idx)
	b.BankAccounts[idx].UpdatedAt = now
	b.UpdatedAt = now
	return nil
}

// VerifyBankAccount flags the account with id as verified. It reports
// whether anything changed.
func (b *BillingDetails) VerifyBankAccount(id primitive.ObjectID, now time.Time) (bool, error) {
	idx := b.accountIndex(id)
	if idx < 0 {
		return false, ErrBankAccountNotFound
	}
	if b.BankAccounts[idx].IsVerified {
		return false, nil
	}
	b.BankAccounts[idx].IsVerified = true
	b.BankAccounts[idx].UpdatedAt = now
	b.UpdatedAt = now
	return true, nil
}

// ApplyPatch applies the set fields of p. The tax, MSME, and verification
// rules are checked against the resulting state; on error b is unchanged.
func (b *BillingDetails) ApplyPatch(p BillingPatch, now time.Time) error {
	next := *b
	if p.PartyLegalName != nil {
		next.PartyLegalName = *p.PartyLegalName
	}
	if p.IsGSTApplicable != nil {
		next.IsGSTApplicable = *p.IsGSTApplicable
	}
	if p.GSTIN != nil {
		next.GSTIN = *p.GSTIN
	}
	if p.PANCard != nil {
		next.PANCard = *p.PANCard
	}
	if p.State != nil {
		next.State = *p.State
	}
	if p.City != nil {
		next.City = *p.City
	}
	if p.Address != nil {
		next.Address = *p.Address
	}
	if p.Pincode != nil {
		next.Pincode = *p.Pincode
	}
	if p.IsIndividual != nil {
		next.IsIndividual = *p.IsIndividual
	}
	if p.IsMSME != nil {
		next.IsMSME = *p.IsMSME
	}
	if p.GSTCertificateURL != nil {
		next.GSTCertificateURL = *p.GSTCertificateURL
	}
	if p.MSMECertificateURL != nil {
		next.MSMECertificateURL = *p.MSMECertificateURL
	}
	if p.PANCardURL != nil {
		next.PANCardURL = *p.PANCardURL
	}
	if p.IsGSTVerified != nil {
		if b.IsGSTVerified && !*p.IsGSTVerified {
			return ErrVerificationRevoked
		}
		next.IsGSTVerified = *p.IsGSTVerified
	}
	if p.IsPANCardVerified != nil {
		if b.IsPANCardVerified && !*p.IsPANCardVerified {
			return ErrVerificationRevoked
		}
		next.IsPANCardVerified = *p.IsPANCardVerified
	}
	if err := next.checkInvariants(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*b = next
	return nil
}

// VerifyGST flags the GSTIN as verified. It fails when no GSTIN is on file
// and reports false when the flag was already set.
func (b *BillingDetails) VerifyGST(now time.Time) (bool, error) {
	if b.GSTIN == "" {
		return false, ErrGSTINMissing
	}
	if b.IsGSTVerified {
		return false, nil
	}
	b.IsGSTVerified = true
	b.UpdatedAt = now
	return true, nil
}

// VerifyPAN flags the PAN as verified. It fails when no PAN is on file and
// reports false when the flag was already set.
func (b *BillingDetails) VerifyPAN(now time.Time) (bool, error) {
	if b.PANCard == "" {
		return false, ErrPANMissing
	}
	if b.IsPANCardVerified {
		return false, nil
	}
	b.IsPANCardVerified = true
	b.UpdatedAt = now
	return true, nil
}

// SetMSME switches MSME status. Enabling needs a certificate URL on file;
// asking for the current status returns ErrNotModified.
func (b *BillingDetails) SetMSME(enabled bool, now time.Time) error {
	if enabled && b.MSMECertificateURL == "" {
		return ErrMSMECertificateRequired
	}
	if b.IsMSME == enabled {
		return ErrNotModified
	}
	b.IsMSME = enabled
	b.UpdatedAt = now
	return nil
}
