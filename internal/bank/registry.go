package bank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AryanBlip/Invoice-Automation/internal/types"
)

// anchorLabel is the header cell that marks the header row of a
// header-search sheet.
const anchorLabel = "customer name"

var (
	incentiveGrid = []types.Field{
		types.FieldDisbursalDate,
		types.FieldReference,
		types.FieldCustomerName,
		types.FieldLoanAmount,
		types.FieldSlab,
		types.FieldIncentive,
	}

	payoutGrid = []types.Field{
		types.FieldDisbursalDate,
		types.FieldReference,
		types.FieldCustomerName,
		types.FieldLoanAmount,
		types.FieldSlab,
		types.FieldPayout,
		types.FieldVAT,
		types.FieldIncentive,
	}

	incentiveTable = []Column{
		{types.FieldDisbursalDate, AlignLeft},
		{types.FieldReference, AlignCenter},
		{types.FieldCustomerName, AlignLeft},
		{types.FieldLoanAmount, AlignRight},
		{types.FieldSlab, AlignCenter},
		{types.FieldIncentive, AlignRight},
	}

	payoutTable = []Column{
		{types.FieldDisbursalDate, AlignLeft},
		{types.FieldReference, AlignCenter},
		{types.FieldCustomerName, AlignLeft},
		{types.FieldLoanAmount, AlignCenter},
		{types.FieldSlab, AlignCenter},
		{types.FieldPayout, AlignCenter},
		{types.FieldVAT, AlignCenter},
		{types.FieldIncentive, AlignCenter},
	}
)

var registry = map[string]Variant{
	"ADIB": {
		Code:      "ADIB",
		Name:      "Abu Dhabi Islamic Bank",
		Discovery: Positional,
		Offsets: map[types.Field]int{
			types.FieldCustomerName: 0,
			types.FieldLoanAmount:   2,
		},
		ReferenceTitle:      "Type",
		DefaultReference:    "New",
		DefaultSlab:         decimal.RequireFromString("0.9"),
		Formula:             FormulaIncentive,
		GridColumns:         incentiveGrid,
		RequiredTableLabels: []string{"customer name"},
		TableLayout:         incentiveTable,
		Totals:              TotalsVATOnTop,
		InvoiceNumberToken:  "[invoice number]",
		TemplateFile:        "ADIBtemplate.docx",
	},
	"DIB": {
		Code:      "DIB",
		Name:      "Dubai Islamic Bank",
		Discovery: Positional,
		Offsets: map[types.Field]int{
			types.FieldReference:    1,
			types.FieldCustomerName: 2,
			types.FieldLoanAmount:   3,
			types.FieldSlab:         6,
		},
		ReferenceTitle:      "App reference",
		SlabFromSheet:       true,
		SlabScale:           decimal.NewFromInt(100),
		Formula:             FormulaPayoutVAT,
		GridColumns:         payoutGrid,
		RequiredTableLabels: []string{"customer name", "loan amount"},
		TableLayout:         payoutTable,
		Totals:              TotalsVATInside,
		InvoiceNumberToken:  "[invoice number]",
		TemplateFile:        "DIBtemplate.docx",
	},
	"EIB": {
		Code:      "EIB",
		Name:      "Emirates Islamic Bank",
		Discovery: HeaderSearch,
		HeaderLabels: map[types.Field]string{
			types.FieldCustomerName: anchorLabel,
			types.FieldLoanAmount:   "contract amt",
		},
		OptionalLabels: map[types.Field]string{
			types.FieldReference: "product",
		},
		ReferenceTitle:      "Product",
		DefaultReference:    "New",
		DefaultSlab:         decimal.RequireFromString("0.9"),
		Formula:             FormulaIncentive,
		GridColumns:         incentiveGrid,
		RequiredTableLabels: []string{"customer name"},
		TableLayout:         incentiveTable,
		Totals:              TotalsVATOnTop,
		InvoiceNumberToken:  "[invoice no]",
		TemplateFile:        "EIBtemplate.docx",
		OwnsCounter:         true,
	},
	"ENBD": {
		Code:      "ENBD",
		Name:      "Emirates NBD",
		Discovery: HeaderSearch,
		HeaderLabels: map[types.Field]string{
			types.FieldCustomerName: anchorLabel,
			types.FieldLoanAmount:   "contract amt",
			types.FieldSlab:         "payout %",
		},
		OptionalLabels: map[types.Field]string{
			types.FieldReference: "app ref",
		},
		ReferenceTitle:      "App reference",
		SlabFromSheet:       true,
		SlabScale:           decimal.NewFromInt(100),
		Formula:             FormulaPayoutVAT,
		GridColumns:         payoutGrid,
		RequiredTableLabels: []string{"customer name", "loan amount"},
		TableLayout:         payoutTable,
		Totals:              TotalsVATInside,
		InvoiceNumberToken:  "[invoice number]",
		TemplateFile:        "ENBDtemplate.docx",
	},
}

// AnchorLabel returns the header cell that marks a header-search header row.
func AnchorLabel() string {
	return anchorLabel
}

// Lookup returns the variant for code, ignoring case.
func Lookup(code string) (Variant, error) {
	v, ok := registry[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Variant{}, fmt.Errorf("unknown bank %q (known: %s)", code, strings.Join(Codes(), ", "))
	}
	return v, nil
}

// Codes returns the known bank codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns every variant sorted by code.
func All() []Variant {
	all := make([]Variant, 0, len(registry))
	for _, code := range Codes() {
		all = append(all, registry[code])
	}
	return all
}
