package underwriting

// completenessChecks are the key facts an underwriter needs from the file.
var completenessChecks = []func(p *Profile) bool{
	func(p *Profile) bool { return p.BorrowerInfo.PrimaryName != "" },
	func(p *Profile) bool { return p.Employment.EmployerName != "" },
	func(p *Profile) bool { return p.Income.TotalMonthlyIncome != nil },
	func(p *Profile) bool { return p.Assets.TotalLiquidAssets != nil },
	func(p *Profile) bool { return p.Debts.TotalMonthlyDebts != nil },
}

// Completeness returns the percentage (0-100) of key facts present in p.
func Completeness(p Profile) float64 {
	present := 0
	for _, check := range completenessChecks {
		if check(&p) {
			present++
		}
	}
	return float64(present) / float64(len(completenessChecks)) * 100
}
