package underwriting

// Merge folds partial profiles into one combined profile in the order given.
// Within each field group a later non-empty value replaces an earlier one;
// empty values never erase what an earlier document supplied.
func Merge(partials []PartialProfile) CombinedProfile {
	c := CombinedProfile{
		DocumentTypes:     make([]DocumentType, 0, len(partials)),
		DocumentsAnalyzed: len(partials),
		RiskFlags:         []string{},
	}
	for i := range partials {
		p := &partials[i]
		c.Profile = overlayProfile(c.Profile, p.Profile)
		c.DocumentTypes = append(c.DocumentTypes, p.DocumentType)
		c.RiskFlags = append(c.RiskFlags, p.RiskFlags...)
	}
	c.Completeness = Completeness(c.Profile)
	return c
}

func overlayProfile(dst, src Profile) Profile {
	return Profile{
		BorrowerInfo: overlayBorrower(dst.BorrowerInfo, src.BorrowerInfo),
		Employment:   overlayEmployment(dst.Employment, src.Employment),
		Income:       overlayIncome(dst.Income, src.Income),
		Assets:       overlayAssets(dst.Assets, src.Assets),
		Debts:        overlayDebts(dst.Debts, src.Debts),
		CreditInfo:   overlayCredit(dst.CreditInfo, src.CreditInfo),
		LoanDetails:  overlayLoan(dst.LoanDetails, src.LoanDetails),
	}
}

func overlayBorrower(dst, src BorrowerInfo) BorrowerInfo {
	return BorrowerInfo{
		PrimaryName:    pickText(dst.PrimaryName, src.PrimaryName),
		CoBorrowerName: pickText(dst.CoBorrowerName, src.CoBorrowerName),
		Address:        pickText(dst.Address, src.Address),
		Phone:          pickText(dst.Phone, src.Phone),
		Email:          pickText(dst.Email, src.Email),
	}
}

func overlayEmployment(dst, src Employment) Employment {
	return Employment{
		EmployerName:     pickText(dst.EmployerName, src.EmployerName),
		JobTitle:         pickText(dst.JobTitle, src.JobTitle),
		EmploymentLength: pickText(dst.EmploymentLength, src.EmploymentLength),
		EmploymentType:   pickText(dst.EmploymentType, src.EmploymentType),
	}
}

func overlayIncome(dst, src Income) Income {
	return Income{
		BaseMonthlyIncome:       pickAmount(dst.BaseMonthlyIncome, src.BaseMonthlyIncome),
		AdditionalMonthlyIncome: pickAmount(dst.AdditionalMonthlyIncome, src.AdditionalMonthlyIncome),
		TotalMonthlyIncome:      pickAmount(dst.TotalMonthlyIncome, src.TotalMonthlyIncome),
		AnnualIncome:            pickAmount(dst.AnnualIncome, src.AnnualIncome),
		YearToDateIncome:        pickAmount(dst.YearToDateIncome, src.YearToDateIncome),
	}
}

func overlayAssets(dst, src Assets) Assets {
	return Assets{
		CheckingBalance:   pickAmount(dst.CheckingBalance, src.CheckingBalance),
		SavingsBalance:    pickAmount(dst.SavingsBalance, src.SavingsBalance),
		InvestmentBalance: pickAmount(dst.InvestmentBalance, src.InvestmentBalance),
		TotalLiquidAssets: pickAmount(dst.TotalLiquidAssets, src.TotalLiquidAssets),
	}
}

func overlayDebts(dst, src Debts) Debts {
	return Debts{
		HousingPayment:     pickAmount(dst.HousingPayment, src.HousingPayment),
		AutoPayment:        pickAmount(dst.AutoPayment, src.AutoPayment),
		CreditCardPayment:  pickAmount(dst.CreditCardPayment, src.CreditCardPayment),
		StudentLoanPayment: pickAmount(dst.StudentLoanPayment, src.StudentLoanPayment),
		TotalMonthlyDebts:  pickAmount(dst.TotalMonthlyDebts, src.TotalMonthlyDebts),
	}
}

func overlayCredit(dst, src CreditInfo) CreditInfo {
	return CreditInfo{
		CreditScore:    pickAmount(dst.CreditScore, src.CreditScore),
		CreditBureau:   pickText(dst.CreditBureau, src.CreditBureau),
		OpenAccounts:   pickAmount(dst.OpenAccounts, src.OpenAccounts),
		Delinquencies:  pickAmount(dst.Delinquencies, src.Delinquencies),
		CreditUtilized: pickAmount(dst.CreditUtilized, src.CreditUtilized),
	}
}

func overlayLoan(dst, src LoanDetails) LoanDetails {
	return LoanDetails{
		LoanAmount:      pickAmount(dst.LoanAmount, src.LoanAmount),
		LoanPurpose:     pickText(dst.LoanPurpose, src.LoanPurpose),
		LoanTermMonths:  pickAmount(dst.LoanTermMonths, src.LoanTermMonths),
		PropertyAddress: pickText(dst.PropertyAddress, src.PropertyAddress),
		PropertyValue:   pickAmount(dst.PropertyValue, src.PropertyValue),
	}
}

func pickText(cur, next string) string {
	if next != "" {
		return next
	}
	return cur
}

// pickAmount copies the winning value so the combined profile never aliases
// a caller-owned partial.
func pickAmount(cur, next *float64) *float64 {
	if next != nil {
		v := *next
		return &v
	}
	return cur
}
