package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryKind drives how the calculators treat transactions in a category:
// income feeds the income metric, transfers are excluded from spending,
// debt payments are tracked separately from spending.
type CategoryKind string

const (
	CategoryRegular  CategoryKind = "regular"
	CategoryIncome   CategoryKind = "income"
	CategoryTransfer CategoryKind = "transfer"
	CategoryDebt     CategoryKind = "debt"
)

// UncategorizedID is the bucket for transactions whose category reference is
// missing or unknown.
const (
	UncategorizedID   = "uncategorized"
	UncategorizedName = "Uncategorized"
)

// CategoryMeta is the display and classification metadata for a category
// name. Icon is an identifier the presentation layer maps to an actual
// glyph.
type CategoryMeta struct {
	Kind CategoryKind
	Icon string
}

// categoryMappings maps normalized category names to their metadata. Names
// outside this table are regular spending categories with the generic icon.
var categoryMappings = map[string]CategoryMeta{
	"salary":              {Kind: CategoryIncome, Icon: "wallet"},
	"income":              {Kind: CategoryIncome, Icon: "wallet"},
	"paycheck":            {Kind: CategoryIncome, Icon: "wallet"},
	"interest":            {Kind: CategoryIncome, Icon: "wallet"},
	"dividends":           {Kind: CategoryIncome, Icon: "chart"},
	"transfer":            {Kind: CategoryTransfer, Icon: "swap"},
	"internal transfer":   {Kind: CategoryTransfer, Icon: "swap"},
	"savings":             {Kind: CategoryTransfer, Icon: "swap"},
	"credit card payment": {Kind: CategoryDebt, Icon: "card"},
	"loan payment":        {Kind: CategoryDebt, Icon: "bank"},
	"mortgage payment":    {Kind: CategoryDebt, Icon: "bank"},
	"debt payment":        {Kind: CategoryDebt, Icon: "bank"},
	"rent":                {Kind: CategoryRegular, Icon: "home"},
	"housing":             {Kind: CategoryRegular, Icon: "home"},
	"groceries":           {Kind: CategoryRegular, Icon: "cart"},
	"dining":              {Kind: CategoryRegular, Icon: "food"},
	"restaurants":         {Kind: CategoryRegular, Icon: "food"},
	"food":                {Kind: CategoryRegular, Icon: "food"},
	"transportation":      {Kind: CategoryRegular, Icon: "car"},
	"transport":           {Kind: CategoryRegular, Icon: "car"},
	"fuel":                {Kind: CategoryRegular, Icon: "car"},
	"utilities":           {Kind: CategoryRegular, Icon: "bolt"},
	"internet":            {Kind: CategoryRegular, Icon: "bolt"},
	"phone":               {Kind: CategoryRegular, Icon: "phone"},
	"entertainment":       {Kind: CategoryRegular, Icon: "film"},
	"streaming":           {Kind: CategoryRegular, Icon: "film"},
	"subscriptions":       {Kind: CategoryRegular, Icon: "repeat"},
	"shopping":            {Kind: CategoryRegular, Icon: "bag"},
	"healthcare":          {Kind: CategoryRegular, Icon: "health"},
	"health":              {Kind: CategoryRegular, Icon: "health"},
	"insurance":           {Kind: CategoryRegular, Icon: "shield"},
	"education":           {Kind: CategoryRegular, Icon: "book"},
	"travel":              {Kind: CategoryRegular, Icon: "plane"},
	"fitness":             {Kind: CategoryRegular, Icon: "gym"},
	"personal care":       {Kind: CategoryRegular, Icon: "scissors"},
	"gifts":               {Kind: CategoryRegular, Icon: "gift"},
	"charity":             {Kind: CategoryRegular, Icon: "gift"},
	"uncategorized":       {Kind: CategoryRegular, Icon: "question"},
}

// kindKeywords catches category names the exact table misses, e.g.
// "Car Loan Payment" or "Monthly Salary".
var kindKeywords = []struct {
	keyword string
	kind    CategoryKind
}{
	{"salary", CategoryIncome},
	{"income", CategoryIncome},
	{"payroll", CategoryIncome},
	{"transfer", CategoryTransfer},
	{"loan payment", CategoryDebt},
	{"card payment", CategoryDebt},
	{"mortgage", CategoryDebt},
	{"debt", CategoryDebt},
}

const genericIcon = "folder"

// ClassifyCategory returns the metadata for a category display name. Unknown
// names are regular spending with the generic icon, so an arbitrary snapshot
// string is always a defined behavior.
func ClassifyCategory(name string) CategoryMeta {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if meta, ok := categoryMappings[normalized]; ok {
		return meta
	}
	for _, kw := range kindKeywords {
		if strings.Contains(normalized, kw.keyword) {
			return CategoryMeta{Kind: kw.kind, Icon: genericIcon}
		}
	}
	return CategoryMeta{Kind: CategoryRegular, Icon: genericIcon}
}

var titleCaser = cases.Title(language.English)

// DisplayCategoryName formats a raw category name for presentation. Known
// names keep their snapshot casing; unknown ones are title-cased.
func DisplayCategoryName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return UncategorizedName
	}
	if _, ok := categoryMappings[strings.ToLower(trimmed)]; ok {
		return trimmed
	}
	return titleCaser.String(strings.ToLower(trimmed))
}
