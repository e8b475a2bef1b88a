// internal/app/features/billing/types.go
package billing

import (
	"github.com/dalemusser/influencehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/domain/models"
)

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Tax identifiers are stored upper-case; free text loses markup.

func cleanInput(in models.BillingInput) models.BillingInput {
	in.PartyLegalName = htmlsanitize.PlainText(in.PartyLegalName)
	in.GSTIN = normalize.TaxID(in.GSTIN)
	in.PANCard = normalize.TaxID(in.PANCard)
	in.State = htmlsanitize.PlainText(in.State)
	in.City = htmlsanitize.PlainText(in.City)
	in.Address = htmlsanitize.PlainText(in.Address)
	in.Pincode = normalize.Name(in.Pincode)
	for i := range in.BankAccounts {
		in.BankAccounts[i] = cleanAccount(in.BankAccounts[i])
	}
	return in
}

func cleanPatch(p models.BillingPatch) models.BillingPatch {
	p.PartyLegalName = htmlsanitize.PlainTextPtr(p.PartyLegalName)
	p.GSTIN = taxIDPtr(p.GSTIN)
	p.PANCard = taxIDPtr(p.PANCard)
	p.State = htmlsanitize.PlainTextPtr(p.State)
	p.City = htmlsanitize.PlainTextPtr(p.City)
	p.Address = htmlsanitize.PlainTextPtr(p.Address)
	return p
}

func cleanAccount(a models.BankAccountInput) models.BankAccountInput {
	a.AccountNumber = normalize.Name(a.AccountNumber)
	a.IFSCCode = normalize.TaxID(a.IFSCCode)
	a.AccountHolderName = htmlsanitize.PlainText(a.AccountHolderName)
	a.BankName = htmlsanitize.PlainText(a.BankName)
	a.BranchName = htmlsanitize.PlainText(a.BranchName)
	return a
}

func cleanAccountPatch(p models.BankAccountPatch) models.BankAccountPatch {
	p.AccountNumber = namePtr(p.AccountNumber)
	p.IFSCCode = taxIDPtr(p.IFSCCode)
	p.AccountHolderName = htmlsanitize.PlainTextPtr(p.AccountHolderName)
	p.BankName = htmlsanitize.PlainTextPtr(p.BankName)
	p.BranchName = htmlsanitize.PlainTextPtr(p.BranchName)
	return p
}

func namePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := normalize.Name(*s)
	return &v
}

func taxIDPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := normalize.TaxID(*s)
	return &v
}
