package taxonomy

import "sync"

var (
	defaultOnce     sync.Once
	defaultTaxonomy *Taxonomy
)

// Default returns the built-in taxonomy, constructed once per process.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := New(DefaultCategories(), DefaultDocumentKeywords(), DefaultChart())
		if err != nil {
			// The built-in data is covered by tests.
			panic(err)
		}
		defaultTaxonomy = t
	})
	return defaultTaxonomy
}

// DefaultDocumentKeywords returns the statement-type keyword lists.
func DefaultDocumentKeywords() DocumentKeywords {
	return DocumentKeywords{
		TrialBalance: []string{
			"trial balance", "debit", "credit", "account code", "account name", "account",
		},
		BalanceSheet: []string{
			"balance sheet", "assets", "liabilities", "equity", "current assets", "total assets",
		},
		IncomeStatement: []string{
			"income statement", "profit and loss", "revenue", "expenses", "net income", "cost of goods sold",
		},
	}
}

// DefaultCategories returns the built-in keyword hierarchy.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "Assets",
			Groups: []Group{
				{
					Name: "Current Assets",
					Accounts: []Leaf{
						{Name: "Cash and Cash Equivalents", Keywords: []string{"cash", "bank", "petty cash", "checking", "savings"}},
						{Name: "Accounts Receivable", Keywords: []string{"receivable", "debtors", "trade debtors"}},
						{Name: "Inventory", Keywords: []string{"inventory", "stock on hand", "merchandise", "raw materials", "finished goods"}},
						{Name: "Prepaid Expenses", Keywords: []string{"prepaid", "prepayment", "advance payment"}},
					},
				},
				{
					Name: "Non-Current Assets",
					Accounts: []Leaf{
						{Name: "Property, Plant and Equipment", Keywords: []string{"property", "plant", "equipment", "machinery", "vehicle", "furniture", "building"}},
						{Name: "Accumulated Depreciation", Keywords: []string{"accumulated depreciation", "accumulated amortization"}},
						{Name: "Intangible Assets", Keywords: []string{"intangible", "goodwill", "patent", "trademark"}},
						{Name: "Long-term Investments", Keywords: []string{"investment", "securities held"}},
					},
				},
			},
		},
		{
			Name: "Liabilities",
			Groups: []Group{
				{
					Name: "Current Liabilities",
					Accounts: []Leaf{
						{Name: "Taxes Payable", Keywords: []string{"tax payable", "vat", "gst"}},
						{Name: "Accounts Payable", Keywords: []string{"payable", "creditors", "trade creditors"}},
						{Name: "Accrued Liabilities", Keywords: []string{"accrued", "accrual"}},
						{Name: "Short-term Debt", Keywords: []string{"short-term loan", "overdraft", "line of credit", "current portion"}},
					},
				},
				{
					Name: "Non-Current Liabilities",
					Accounts: []Leaf{
						{Name: "Long-term Debt", Keywords: []string{"long-term loan", "mortgage", "bonds", "term loan"}},
						{Name: "Deferred Tax Liabilities", Keywords: []string{"deferred tax"}},
					},
				},
			},
		},
		{
			Name: "Equity",
			Groups: []Group{
				{
					Name: "Owner's Equity",
					Accounts: []Leaf{
						{Name: "Share Capital", Keywords: []string{"share capital", "common stock", "capital stock", "paid-in"}},
						{Name: "Retained Earnings", Keywords: []string{"retained earnings", "accumulated profit"}},
						{Name: "Drawings", Keywords: []string{"drawings", "dividends"}},
					},
				},
			},
		},
		{
			Name: "Revenue",
			Groups: []Group{
				{
					Name: "Operating Revenue",
					Accounts: []Leaf{
						{Name: "Sales Revenue", Keywords: []string{"sales", "revenue", "turnover", "income from sales"}},
						{Name: "Service Revenue", Keywords: []string{"service income", "fees earned", "consulting"}},
					},
				},
				{
					Name: "Non-Operating Revenue",
					Accounts: []Leaf{
						{Name: "Interest Income", Keywords: []string{"interest income", "interest earned"}},
						{Name: "Other Income", Keywords: []string{"other income", "rental income"}},
					},
				},
			},
		},
		{
			Name: "Expenses",
			Groups: []Group{
				{
					Name: "Cost of Sales",
					Accounts: []Leaf{
						{Name: "Cost of Goods Sold", Keywords: []string{"cost of goods sold", "cogs", "cost of sales"}},
					},
				},
				{
					Name: "Operating Expenses",
					Accounts: []Leaf{
						{Name: "Salaries and Wages", Keywords: []string{"salary", "salaries", "wages", "payroll"}},
						{Name: "Rent", Keywords: []string{"rent expense", "office rent", "lease"}},
						{Name: "Utilities", Keywords: []string{"utilities", "electricity", "telephone", "internet"}},
						{Name: "Depreciation Expense", Keywords: []string{"depreciation expense"}},
						{Name: "Office Expenses", Keywords: []string{"office", "supplies", "stationery", "postage"}},
						{Name: "Marketing", Keywords: []string{"advertising", "marketing", "promotion"}},
					},
				},
				{
					Name: "Financial Expenses",
					Accounts: []Leaf{
						{Name: "Interest Expense", Keywords: []string{"interest expense", "bank charges", "finance cost"}},
					},
				},
			},
		},
	}
}

// DefaultChart returns the standard chart of accounts.
func DefaultChart() []Account {
	return []Account{
		{Code: "1000", Primary: "Assets", Secondary: "Current Assets", Tertiary: "Cash and Cash Equivalents"},
		{Code: "1100", Primary: "Assets", Secondary: "Current Assets", Tertiary: "Accounts Receivable"},
		{Code: "1200", Primary: "Assets", Secondary: "Current Assets", Tertiary: "Inventory"},
		{Code: "1300", Primary: "Assets", Secondary: "Current Assets", Tertiary: "Prepaid Expenses"},
		{Code: "1500", Primary: "Assets", Secondary: "Non-Current Assets", Tertiary: "Property, Plant and Equipment"},
		{Code: "1600", Primary: "Assets", Secondary: "Non-Current Assets", Tertiary: "Accumulated Depreciation"},
		{Code: "1700", Primary: "Assets", Secondary: "Non-Current Assets", Tertiary: "Intangible Assets"},
		{Code: "2000", Primary: "Liabilities", Secondary: "Current Liabilities", Tertiary: "Accounts Payable"},
		{Code: "2100", Primary: "Liabilities", Secondary: "Current Liabilities", Tertiary: "Accrued Liabilities"},
		{Code: "2200", Primary: "Liabilities", Secondary: "Current Liabilities", Tertiary: "Short-term Debt"},
		{Code: "2300", Primary: "Liabilities", Secondary: "Current Liabilities", Tertiary: "Taxes Payable"},
		{Code: "2500", Primary: "Liabilities", Secondary: "Non-Current Liabilities", Tertiary: "Long-term Debt"},
		{Code: "3000", Primary: "Equity", Secondary: "Owner's Equity", Tertiary: "Share Capital"},
		{Code: "3100", Primary: "Equity", Secondary: "Owner's Equity", Tertiary: "Retained Earnings"},
		{Code: "3200", Primary: "Equity", Secondary: "Owner's Equity", Tertiary: "Drawings"},
		{Code: "4000", Primary: "Revenue", Secondary: "Operating Revenue", Tertiary: "Sales Revenue"},
		{Code: "4100", Primary: "Revenue", Secondary: "Operating Revenue", Tertiary: "Service Revenue"},
		{Code: "4200", Primary: "Revenue", Secondary: "Non-Operating Revenue", Tertiary: "Interest Income"},
		{Code: "4300", Primary: "Revenue", Secondary: "Non-Operating Revenue", Tertiary: "Other Income"},
		{Code: "5000", Primary: "Expenses", Secondary: "Cost of Sales", Tertiary: "Cost of Goods Sold"},
		{Code: "6000", Primary: "Expenses", Secondary: "Operating Expenses", Tertiary: "Salaries and Wages"},
		{Code: "6100", Primary: "Expenses", Secondary: "Operating Expenses", Tertiary: "Rent"},
		{Code: "6200", Primary: "Expenses", Secondary: "Operating Expenses", Tertiary: "Utilities"},
		{Code: "6300", Primary: "Expenses", Secondary: "Operating Expenses", Tertiary: "Depreciation Expense"},
		{Code: "6400", Primary: "Expenses", Secondary: "Operating Expenses", Tertiary: "Office Expenses"},
		{Code: "6500", Primary: "Expenses", Secondary: "Operating Expenses", Tertiary: "Marketing"},
		{Code: "7000", Primary: "Expenses", Secondary: "Financial Expenses", Tertiary: "Interest Expense"},
	}
}
